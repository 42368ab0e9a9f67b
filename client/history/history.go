package history

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"slurmview/config"
	"slurmview/internal/pkg/model"
)

var (
	// ErrNoSnapshot is returned when nothing was recorded at or before the
	// requested time.
	ErrNoSnapshot = errors.New("no snapshot recorded at or before the requested time")
	// ErrReadOnly is returned for writes against a read-only store.
	ErrReadOnly = errors.New("history store is read-only")
)

// Client stores node snapshots in MySQL through GORM.
type Client struct {
	DB       *gorm.DB
	ReadOnly bool
}

// Close closes the underlying connection pool.
func (c *Client) Close() error {
	if c == nil || c.DB == nil {
		return nil
	}
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// New opens the history store configured by cfg. Writable stores migrate the
// node_snapshots table; read-only stores reject writes at the ORM layer.
func New(cfg config.History) (*Client, error) {
	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}

	gcfg := &gorm.Config{
		Logger:                 glogger.Default.LogMode(glogger.Warn),
		SkipDefaultTransaction: true,
	}

	db, err := gorm.Open(mysql.Open(dsn), gcfg)
	if err != nil {
		return nil, fmt.Errorf("unable to open history store: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if d := config.ParseDuration(cfg.ConnMaxLifetime); d > 0 {
		sqlDB.SetConnMaxLifetime(d)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("unable to reach history store: %w", err)
	}

	if !cfg.ReadOnly {
		if err := db.AutoMigrate(&model.NodeSnapshot{}); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("unable to migrate node_snapshots: %w", err)
		}
	}
	return NewWithDB(db, cfg.ReadOnly), nil
}

// NewWithDB wraps an already opened connection.
func NewWithDB(db *gorm.DB, readOnly bool) *Client {
	if readOnly {
		enforceReadOnly(db)
	}
	return &Client{DB: db, ReadOnly: readOnly}
}

// buildDSN constructs a DSN string without importing the mysql driver package.
// Format: user:pass@tcp(host:port)/dbname?param=value
func buildDSN(cfg config.History) (string, error) {
	if cfg.Host == "" || cfg.Database == "" {
		return "", fmt.Errorf("history host and database are required")
	}
	creds := cfg.User
	if cfg.Password != "" {
		creds = fmt.Sprintf("%s:%s", cfg.User, cfg.Password)
	}
	addr := fmt.Sprintf("tcp(%s:%d)", cfg.Host, cfg.Port)

	params := make([]string, 0, 7)
	if cfg.Charset != "" {
		params = append(params, fmt.Sprintf("charset=%s", cfg.Charset))
	}
	// taken_at is scanned into time.Time.
	params = append(params, "parseTime=true")
	if cfg.Loc != "" {
		params = append(params, fmt.Sprintf("loc=%s", url.QueryEscape(cfg.Loc)))
	}
	if cfg.TLS != "" {
		params = append(params, fmt.Sprintf("tls=%s", cfg.TLS))
	}
	params = append(params, "timeout=5s", "readTimeout=30s", "writeTimeout=30s")

	return fmt.Sprintf("%s@%s/%s?%s", creds, addr, cfg.Database, strings.Join(params, "&")), nil
}

// enforceReadOnly installs GORM callbacks that reject write operations and non-read raw SQL.
func enforceReadOnly(db *gorm.DB) {
	block := func(tx *gorm.DB) {
		_ = tx.AddError(ErrReadOnly)
	}
	_ = db.Callback().Create().Before("gorm:create").Register("slurmview:readonly_create", block)
	_ = db.Callback().Update().Before("gorm:update").Register("slurmview:readonly_update", block)
	_ = db.Callback().Delete().Before("gorm:delete").Register("slurmview:readonly_delete", block)

	_ = db.Callback().Raw().Before("gorm:raw").Register("slurmview:readonly_raw", func(tx *gorm.DB) {
		up := strings.ToUpper(strings.TrimSpace(tx.Statement.SQL.String()))
		if strings.HasPrefix(up, "SELECT") || strings.HasPrefix(up, "SHOW") || strings.HasPrefix(up, "DESCRIBE") || strings.HasPrefix(up, "EXPLAIN") {
			return
		}
		_ = tx.AddError(ErrReadOnly)
	})
}

// Save records payload as the snapshot taken at takenAt.
func (c *Client) Save(ctx context.Context, takenAt time.Time, nodeCount int, payload []byte) (*model.NodeSnapshot, error) {
	if c == nil || c.DB == nil {
		return nil, fmt.Errorf("nil history client")
	}
	s := &model.NodeSnapshot{TakenAt: takenAt, NodeCount: nodeCount, Payload: payload}
	if err := c.DB.WithContext(ctx).Create(s).Error; err != nil {
		return nil, fmt.Errorf("unable to save node snapshot: %w", err)
	}
	return s, nil
}

// SnapshotAt returns the latest snapshot taken at or before t.
func (c *Client) SnapshotAt(ctx context.Context, t time.Time) (*model.NodeSnapshot, error) {
	if c == nil || c.DB == nil {
		return nil, fmt.Errorf("nil history client")
	}
	var s model.NodeSnapshot
	err := c.DB.WithContext(ctx).
		Where("taken_at <= ?", t).
		Order("taken_at DESC").
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("unable to query node snapshot: %w", err)
	}
	return &s, nil
}

// ListTimes returns the snapshot times in [from, to), ascending.
func (c *Client) ListTimes(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	if c == nil || c.DB == nil {
		return nil, fmt.Errorf("nil history client")
	}
	var rows model.NodeSnapshots
	err := c.DB.WithContext(ctx).
		Select("taken_at").
		Where("taken_at >= ? AND taken_at < ?", from, to).
		Order("taken_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("unable to list snapshot times: %w", err)
	}
	out := make([]time.Time, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.TakenAt)
	}
	return out, nil
}

// Purge deletes snapshots taken before t and reports how many were removed.
func (c *Client) Purge(ctx context.Context, before time.Time) (int64, error) {
	if c == nil || c.DB == nil {
		return 0, fmt.Errorf("nil history client")
	}
	tx := c.DB.WithContext(ctx).Where("taken_at < ?", before).Delete(&model.NodeSnapshot{})
	if tx.Error != nil {
		return 0, fmt.Errorf("unable to purge node snapshots: %w", tx.Error)
	}
	return tx.RowsAffected, nil
}
