package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server Server `yaml:"server"`
}

type Server struct {
	Slurm    Slurm    `yaml:"slurm"`
	Poller   Poller   `yaml:"poller"`
	History  History  `yaml:"history"`
	LDAP     LDAP     `yaml:"ldap"`
	Features []string `yaml:"features"`
	// Location used to interpret rewind dates and to render timestamps.
	Location string `yaml:"location"`
}

// Slurm describes how to reach slurmrestd.
type Slurm struct {
	Server     string `yaml:"server" validate:"required,hostname_rfc1123|ip"`
	Port       int    `yaml:"port" validate:"gte=1,lte=65535"`
	Scheme     string `yaml:"scheme" validate:"oneof=http https"`
	APIVersion string `yaml:"apiVersion" validate:"required"`
	User       string `yaml:"user"`
	Token      string `yaml:"token"`
	Timeout    string `yaml:"timeout"`
}

type Poller struct {
	Interval string `yaml:"interval"`
}

// History is the snapshot store used by the rewind view. The connection fields
// follow the go-sql-driver/mysql DSN options.
type History struct {
	Enabled         bool   `yaml:"enabled"`
	ReadOnly        bool   `yaml:"readOnly"`
	RecordSchedule  string `yaml:"recordSchedule"`
	Retention       string `yaml:"retention"`
	Host            string `yaml:"host" validate:"required_if=Enabled true"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	Database        string `yaml:"database" validate:"required_if=Enabled true"`
	Charset         string `yaml:"charset"`
	Loc             string `yaml:"loc"`
	TLS             string `yaml:"tls"`
	MaxOpenConns    int    `yaml:"maxOpenConns"`
	MaxIdleConns    int    `yaml:"maxIdleConns"`
	ConnMaxLifetime string `yaml:"connMaxLifetime"`
}

type LDAP struct {
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	UseTLS             bool   `yaml:"useTLS"`
	StartTLS           bool   `yaml:"startTLS"`
	InsecureSkipVerify bool   `yaml:"insecureSkipVerify"`
	ServerName         string `yaml:"serverName"`
	RootCAFile         string `yaml:"rootCAFile"`
	ClientCertFile     string `yaml:"clientCertFile"`
	ClientKeyFile      string `yaml:"clientKeyFile"`
	BindDN             string `yaml:"bindDN"`
	BindPassword       string `yaml:"bindPassword"`
	BaseDN             string `yaml:"baseDN"`
	UsernameAttr       string `yaml:"usernameAttr"`
	DisplayNameAttr    string `yaml:"displayNameAttr"`
	ConnectTimeout     string `yaml:"connectTimeout"`
	ReadTimeout        string `yaml:"readTimeout"`
}

// Enabled reports whether an LDAP server was configured.
func (l LDAP) Enabled() bool { return l.Host != "" }

// Load reads a YAML config file from the given path, applies defaults and
// environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Parse is Load without the file read.
func Parse(b []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	cfg.applyEnv(os.LookupEnv)
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv overrides the slurmrestd connection with the variables the
// dashboard has always been deployed with.
func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	s := &c.Server.Slurm
	if v, ok := lookup("SLURM_SERVER"); ok && v != "" {
		s.Server = v
	}
	if v, ok := lookup("SLURM_API_VERSION"); ok && v != "" {
		s.APIVersion = v
	}
	if v, ok := lookup("SLURM_API_USER"); ok && v != "" {
		s.User = v
	}
	if v, ok := lookup("SLURM_API_TOKEN"); ok && v != "" {
		s.Token = v
	}
}

func (c *Config) setDefaults() {
	s := &c.Server.Slurm
	if s.Port == 0 {
		s.Port = 6820
	}
	if s.Scheme == "" {
		s.Scheme = "http"
	}
	if s.Timeout == "" {
		s.Timeout = "10s"
	}
	if c.Server.Poller.Interval == "" {
		c.Server.Poller.Interval = "15s"
	}
	h := &c.Server.History
	if h.RecordSchedule == "" {
		h.RecordSchedule = "@every 15m"
	}
	if h.Port == 0 {
		h.Port = 3306
	}
	if h.Charset == "" {
		h.Charset = "utf8mb4"
	}
	l := &c.Server.LDAP
	if l.UsernameAttr == "" {
		l.UsernameAttr = "uid"
	}
	if l.DisplayNameAttr == "" {
		l.DisplayNameAttr = "cn"
	}
	// An explicit empty list turns every flag off.
	if c.Server.Features == nil {
		c.Server.Features = []string{"OPENAI_API_KEY"}
	}
	if c.Server.Location == "" {
		c.Server.Location = "Local"
	}
}

// Validate checks struct tags and the duration / location strings.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	durations := map[string]string{
		"slurm.timeout":     c.Server.Slurm.Timeout,
		"poller.interval":   c.Server.Poller.Interval,
		"history.retention": c.Server.History.Retention,
	}
	for name, s := range durations {
		if s == "" {
			continue
		}
		if d, err := time.ParseDuration(s); err != nil || d <= 0 {
			return fmt.Errorf("invalid config: %s must be a positive duration, got %q", name, s)
		}
	}
	if _, err := time.LoadLocation(c.Server.Location); err != nil {
		return fmt.Errorf("invalid config: location %q: %w", c.Server.Location, err)
	}
	return nil
}

// ParseDuration returns 0 on empty or invalid duration strings.
func ParseDuration(s string) time.Duration {
	if s == "" {
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}
