package ldap

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"

	gldap "github.com/go-ldap/ldap/v3"

	"slurmview/config"
)

type searcher interface {
	Search(req *gldap.SearchRequest) (*gldap.SearchResult, error)
}

// Client resolves slurm user names to directory display names.
type Client struct {
	mu     sync.Mutex
	conn   searcher
	closer func()
	// dial opens a fresh bound connection after the current one is lost.
	dial func() (searcher, func(), error)

	BaseDN          string
	UsernameAttr    string
	DisplayNameAttr string
}

// Close closes the underlying LDAP connection.
func (c *Client) Close() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closer != nil {
		c.closer()
	}
	c.conn, c.closer = nil, nil
}

// New creates and binds an LDAP client connection based on the provided config.
// It supports plain LDAP, LDAPS, and STARTTLS, optional custom CAs and client certs,
// and connect/read timeouts. A connection dropped by the server is redialed on
// the next lookup.
func New(cfg config.LDAP) (*Client, error) {
	redial := func() (searcher, func(), error) {
		conn, err := dialConn(cfg)
		if err != nil {
			return nil, nil, err
		}
		return conn, func() { conn.Close() }, nil
	}
	conn, closer, err := redial()
	if err != nil {
		return nil, err
	}
	c := newClient(conn, cfg)
	c.closer = closer
	c.dial = redial
	return c, nil
}

func dialConn(cfg config.LDAP) (*gldap.Conn, error) {
	tlsCfg, err := buildTLSConfig(cfg)
	if err != nil {
		return nil, err
	}

	scheme := "ldap"
	if cfg.UseTLS {
		scheme = "ldaps"
	}
	addr := fmt.Sprintf("%s://%s:%d", scheme, cfg.Host, cfg.Port)

	var opts []gldap.DialOpt
	if tlsCfg != nil {
		opts = append(opts, gldap.DialWithTLSConfig(tlsCfg))
	}
	if d := connectDialer(cfg); d != nil {
		opts = append(opts, gldap.DialWithDialer(d))
	}

	conn, err := gldap.DialURL(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to dial %s: %w", addr, err)
	}

	// STARTTLS is not needed when using LDAPS.
	if cfg.StartTLS && !cfg.UseTLS {
		if err := conn.StartTLS(tlsCfg); err != nil {
			conn.Close()
			return nil, fmt.Errorf("unable to start tls: %w", err)
		}
	}

	if rt := config.ParseDuration(cfg.ReadTimeout); rt > 0 {
		conn.SetTimeout(rt)
	}

	if cfg.BindDN != "" || cfg.BindPassword != "" {
		if err := conn.Bind(cfg.BindDN, cfg.BindPassword); err != nil {
			conn.Close()
			return nil, fmt.Errorf("unable to bind as %q: %w", cfg.BindDN, err)
		}
	}

	return conn, nil
}

func newClient(conn searcher, cfg config.LDAP) *Client {
	c := &Client{
		conn:            conn,
		BaseDN:          cfg.BaseDN,
		UsernameAttr:    cfg.UsernameAttr,
		DisplayNameAttr: cfg.DisplayNameAttr,
	}
	if c.UsernameAttr == "" {
		c.UsernameAttr = "uid"
	}
	if c.DisplayNameAttr == "" {
		c.DisplayNameAttr = "cn"
	}
	return c
}

// buildTLSConfig constructs a tls.Config based on config.LDAP.
// Returns nil if no TLS options are needed and UseTLS/StartTLS are false.
func buildTLSConfig(cfg config.LDAP) (*tls.Config, error) {
	needsTLS := cfg.UseTLS || cfg.StartTLS || cfg.InsecureSkipVerify || cfg.RootCAFile != "" || cfg.ClientCertFile != "" || cfg.ClientKeyFile != "" || cfg.ServerName != ""
	if !needsTLS {
		return nil, nil
	}

	tlsCfg := &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec // configurable for testing/non-prod
	}
	if cfg.ServerName != "" {
		tlsCfg.ServerName = cfg.ServerName
	}

	if cfg.RootCAFile != "" {
		pem, err := os.ReadFile(cfg.RootCAFile)
		if err != nil {
			return nil, err
		}
		pool, err := x509.SystemCertPool()
		if err != nil || pool == nil {
			pool = x509.NewCertPool()
		}
		if ok := pool.AppendCertsFromPEM(pem); !ok {
			return nil, fmt.Errorf("failed to append Root CA from %s", cfg.RootCAFile)
		}
		tlsCfg.RootCAs = pool
	}

	if cfg.ClientCertFile != "" && cfg.ClientKeyFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCertFile, cfg.ClientKeyFile)
		if err != nil {
			return nil, err
		}
		tlsCfg.Certificates = []tls.Certificate{cert}
	}

	return tlsCfg, nil
}

func connectDialer(cfg config.LDAP) *net.Dialer {
	to := config.ParseDuration(cfg.ConnectTimeout)
	if to <= 0 {
		return nil
	}
	return &net.Dialer{Timeout: to}
}

// usernameFilter builds (|(uid=a)(uid=b)...) with escaped values, or "" when
// no usable name is given.
func usernameFilter(attr string, usernames []string) string {
	parts := make([]string, 0, len(usernames))
	for _, u := range usernames {
		if u = strings.TrimSpace(u); u == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("(%s=%s)", attr, gldap.EscapeFilter(u)))
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("(|%s)", strings.Join(parts, ""))
}

// DisplayNames maps each uid found in the directory to its display name.
// Unknown uids are absent from the result.
func (c *Client) DisplayNames(ctx context.Context, usernames []string) (map[string]string, error) {
	if c == nil {
		return nil, fmt.Errorf("ldap client not initialized")
	}
	out := make(map[string]string)
	filter := usernameFilter(c.UsernameAttr, usernames)
	if filter == "" {
		return out, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := gldap.NewSearchRequest(
		c.BaseDN,
		gldap.ScopeWholeSubtree,
		gldap.NeverDerefAliases,
		0, 0, false,
		filter,
		[]string{c.UsernameAttr, c.DisplayNameAttr},
		nil,
	)
	// go-ldap doesn't accept context in Search; timeouts handled by conn
	resp, err := c.search(req)
	if err != nil {
		return nil, fmt.Errorf("unable to search ldap: %w", err)
	}
	for _, e := range resp.Entries {
		uid := e.GetAttributeValue(c.UsernameAttr)
		if uid == "" {
			continue
		}
		name := e.GetAttributeValue(c.DisplayNameAttr)
		if name == "" {
			name = uid
		}
		out[uid] = name
	}
	return out, nil
}

// search runs req on the current connection, redialing once when the
// connection is missing or the server has closed it.
func (c *Client) search(req *gldap.SearchRequest) (*gldap.SearchResult, error) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn != nil {
		resp, err := conn.Search(req)
		if err == nil || !gldap.IsErrorWithCode(err, gldap.ErrorNetwork) || c.dial == nil {
			return resp, err
		}
	} else if c.dial == nil {
		return nil, fmt.Errorf("ldap client not initialized")
	}

	conn, err := c.reconnect(conn)
	if err != nil {
		return nil, err
	}
	return conn.Search(req)
}

// reconnect replaces stale with a fresh connection. A concurrent caller that
// already replaced it wins and its connection is reused.
func (c *Client) reconnect(stale searcher) (searcher, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil && c.conn != stale {
		return c.conn, nil
	}
	if c.closer != nil {
		c.closer()
	}
	c.conn, c.closer = nil, nil
	conn, closer, err := c.dial()
	if err != nil {
		return nil, fmt.Errorf("unable to reconnect: %w", err)
	}
	c.conn, c.closer = conn, closer
	return conn, nil
}
