package db

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"

	dbmodels "github.com/gartstein/warranty/internal/warranty/db/models"
	e "github.com/gartstein/warranty/internal/warranty/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

var tenantIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Opener opens and migrates a named database.
type Opener func(ctx context.Context, cfg *Config, dbName string, logger *zap.Logger, entities ...any) (*gorm.DB, error)

// Manager hands out tenant repositories backed by one cached connection
// per tenant database, plus the platform database.
type Manager struct {
	cfg    *Config
	logger *zap.Logger
	open   Opener

	group    singleflight.Group
	mu       sync.Mutex
	tenants  map[string]*gorm.DB
	platform *gorm.DB
}

// NewManager creates a Manager. Connections are opened on first use.
func NewManager(cfg *Config, logger *zap.Logger) *Manager {
	return &Manager{
		cfg:     cfg,
		logger:  logger.Named("db_manager"),
		open:    Open,
		tenants: make(map[string]*gorm.DB),
	}
}

// TenantDBName returns the database name used for a tenant.
func (m *Manager) TenantDBName(tenantID string) string {
	if m.cfg.Driver == DriverSQLite {
		return tenantID
	}
	return m.cfg.TenantDBPrefix + tenantID
}

// Repository returns the repository of a tenant, connecting on first use.
// Concurrent first calls for one tenant share a single open; opens of
// different tenants do not wait on each other.
func (m *Manager) Repository(ctx context.Context, tenantID string) (*Repository, error) {
	if !tenantIDPattern.MatchString(tenantID) {
		return nil, fmt.Errorf("%w: invalid tenant id %q", e.ErrConnection, tenantID)
	}

	m.mu.Lock()
	conn, ok := m.tenants[tenantID]
	m.mu.Unlock()
	if ok {
		return NewRepository(conn), nil
	}

	logger := m.logger.With(zap.String("tenant_id", tenantID))
	conn, err := m.connect(ctx, "tenant:"+tenantID, func(ctx context.Context) (*gorm.DB, error) {
		m.mu.Lock()
		cached, ok := m.tenants[tenantID]
		m.mu.Unlock()
		if ok {
			return cached, nil
		}

		conn, err := m.open(ctx, m.cfg, m.TenantDBName(tenantID), logger, dbmodels.TenantEntities()...)
		if err != nil {
			logger.Error("Failed to open tenant database", zap.Error(err))
			return nil, err
		}
		m.mu.Lock()
		m.tenants[tenantID] = conn
		m.mu.Unlock()
		logger.Info("Tenant database connected")
		return conn, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", e.ErrConnection, err)
	}
	return NewRepository(conn), nil
}

// Platform returns the repository of the platform database.
func (m *Manager) Platform(ctx context.Context) (*ConfigRepository, error) {
	m.mu.Lock()
	conn := m.platform
	m.mu.Unlock()
	if conn != nil {
		return NewConfigRepository(conn), nil
	}

	conn, err := m.connect(ctx, "platform", func(ctx context.Context) (*gorm.DB, error) {
		m.mu.Lock()
		cached := m.platform
		m.mu.Unlock()
		if cached != nil {
			return cached, nil
		}

		conn, err := m.open(ctx, m.cfg, m.cfg.PlatformDBName, m.logger, dbmodels.PlatformEntities()...)
		if err != nil {
			m.logger.Error("Failed to open platform database", zap.Error(err))
			return nil, err
		}
		m.mu.Lock()
		m.platform = conn
		m.mu.Unlock()
		return conn, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", e.ErrConnection, err)
	}
	return NewConfigRepository(conn), nil
}

// connect runs open once per key at a time. The open is detached from the
// caller's cancellation so one impatient caller does not fail the others;
// each caller still stops waiting when its own ctx is done.
func (m *Manager) connect(ctx context.Context, key string, open func(context.Context) (*gorm.DB, error)) (*gorm.DB, error) {
	ch := m.group.DoChan(key, func() (any, error) {
		return open(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*gorm.DB), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close closes every open connection.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for tenantID, conn := range m.tenants {
		if err := Close(conn); err != nil {
			errs = append(errs, fmt.Errorf("tenant %s: %w", tenantID, err))
		}
		delete(m.tenants, tenantID)
	}
	if m.platform != nil {
		if err := Close(m.platform); err != nil {
			errs = append(errs, fmt.Errorf("platform: %w", err))
		}
		m.platform = nil
	}
	return errors.Join(errs...)
}
