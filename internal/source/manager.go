package source

import (
	"context"
	"fmt"
	"sync"
	"time"

	"yqms/internal/syncer"
	"yqms/pkg/log"

	"github.com/glebarez/sqlite"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Config holds per-source connection parameters, loaded once at startup.
type Config struct {
	Name            string
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectRetries  int
	ConnectBackoff  time.Duration
}

type pool struct {
	cfg           Config
	mu            sync.Mutex
	state         State
	db            *gorm.DB
	lastErr       error
	lastConnected time.Time
}

// PoolStatus is a read-only connectivity snapshot for one source.
type PoolStatus struct {
	Connected     bool
	LastError     string
	LastConnected time.Time
}

// Manager owns one connection pool per named relational source and
// guarantees a pool is connected before any query runs against it.
type Manager struct {
	pools  map[string]*pool
	logger *log.Logger

	// Injectable for tests.
	open  func(ctx context.Context, cfg Config) (*gorm.DB, error)
	sleep func(d time.Duration)
}

func NewManager(conf *viper.Viper, logger *log.Logger) (*Manager, func()) {
	m := &Manager{
		pools:  make(map[string]*pool),
		logger: logger,
		open:   openGorm,
		sleep:  time.Sleep,
	}
	for name := range conf.GetStringMap("sources") {
		sub := conf.Sub("sources." + name)
		if sub == nil {
			continue
		}
		cfg := Config{
			Name:            name,
			Driver:          sub.GetString("driver"),
			DSN:             sub.GetString("dsn"),
			MaxOpenConns:    sub.GetInt("max_open_conns"),
			MaxIdleConns:    sub.GetInt("max_idle_conns"),
			ConnMaxLifetime: sub.GetDuration("conn_max_lifetime"),
			ConnectRetries:  sub.GetInt("connect_retries"),
			ConnectBackoff:  sub.GetDuration("connect_backoff"),
		}
		m.Register(cfg)
	}
	return m, func() { m.Close() }
}

// Register adds a source pool. Pools are created disconnected and dialed
// lazily on first EnsureConnected.
func (m *Manager) Register(cfg Config) {
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = 10
	}
	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = 2
	}
	if cfg.ConnMaxLifetime <= 0 {
		cfg.ConnMaxLifetime = 30 * time.Minute
	}
	if cfg.ConnectRetries <= 0 {
		cfg.ConnectRetries = 3
	}
	if cfg.ConnectBackoff <= 0 {
		cfg.ConnectBackoff = 2 * time.Second
	}
	m.pools[cfg.Name] = &pool{cfg: cfg}
}

// EnsureConnected returns the source's handle, dialing if necessary. When the
// tracked state already says connected the call returns without any network
// round trip. Reconnect attempts are bounded; exhaustion yields a typed
// ConnectivityError and leaves the pool disconnected.
func (m *Manager) EnsureConnected(ctx context.Context, name string) (*gorm.DB, error) {
	p, ok := m.pools[name]
	if !ok {
		return nil, &syncer.ConnectivityError{Source: name, Err: fmt.Errorf("unknown source")}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateConnected && p.db != nil {
		return p.db, nil
	}

	for attempt := 1; attempt <= p.cfg.ConnectRetries; attempt++ {
		if attempt > 1 {
			m.sleep(p.cfg.ConnectBackoff * time.Duration(attempt))
		}

		// Drop any half-open handle before redialing.
		p.closeLocked()
		p.state = StateConnecting
		m.logger.Info("connecting to source",
			zap.String("source", name), zap.Int("attempt", attempt),
			zap.Int("max_attempts", p.cfg.ConnectRetries))

		db, err := m.open(ctx, p.cfg)
		if err != nil {
			p.state = StateDisconnected
			p.lastErr = err
			m.logger.Warn("source connect attempt failed",
				zap.String("source", name), zap.Int("attempt", attempt), zap.Error(err))
			continue
		}

		p.db = db
		p.state = StateConnected
		p.lastErr = nil
		p.lastConnected = time.Now()
		m.logger.Info("source connected", zap.String("source", name))
		return db, nil
	}

	return nil, &syncer.ConnectivityError{Source: name, Err: p.lastErr}
}

// ReportError is the asynchronous error observer: a connection-class error
// seen during a query flips the pool back to disconnected so the next
// EnsureConnected redials instead of trusting a stale connected flag.
// Query-level errors are ignored.
func (m *Manager) ReportError(name string, err error) {
	if !syncer.IsConnectivity(err) {
		return
	}
	p, ok := m.pools[name]
	if !ok {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = StateDisconnected
	p.lastErr = err
	m.logger.Warn("source marked disconnected after connection error",
		zap.String("source", name), zap.Error(err))
}

// Status reports the tracked connectivity flag without paying a connection
// attempt. Callers use it to fail fast (skip a run, answer 503).
func (m *Manager) Status(name string) bool {
	p, ok := m.pools[name]
	if !ok {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state == StateConnected
}

// StatusAll snapshots every pool for the connectivity endpoint.
func (m *Manager) StatusAll() map[string]PoolStatus {
	out := make(map[string]PoolStatus, len(m.pools))
	for name, p := range m.pools {
		p.mu.Lock()
		st := PoolStatus{
			Connected:     p.state == StateConnected,
			LastConnected: p.lastConnected,
		}
		if p.lastErr != nil {
			st.LastError = p.lastErr.Error()
		}
		p.mu.Unlock()
		out[name] = st
	}
	return out
}

func (m *Manager) Close() {
	for name, p := range m.pools {
		p.mu.Lock()
		p.closeLocked()
		p.state = StateDisconnected
		p.mu.Unlock()
		m.logger.Info("source pool closed", zap.String("source", name))
	}
}

func (p *pool) closeLocked() {
	if p.db == nil {
		return
	}
	if sqlDB, err := p.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	p.db = nil
}

func openGorm(ctx context.Context, cfg Config) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch cfg.Driver {
	case "mysql", "":
		dial = mysql.Open(cfg.DSN)
	case "postgres":
		dial = postgres.Open(cfg.DSN)
	case "sqlite":
		dial = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported source driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dial, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}
