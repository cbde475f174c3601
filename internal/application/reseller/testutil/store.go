package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"panelsync/internal/domain/panel"
	"panelsync/internal/domain/reseller"
	vo "panelsync/internal/domain/reseller/valueobjects"
	"panelsync/internal/domain/setting"
	"panelsync/internal/infrastructure/migration"
	"panelsync/internal/infrastructure/repository"
	"panelsync/internal/shared/logger"
)

// Store bundles the gorm repositories over a private in-memory sqlite
// database together with a mock panel factory.
type Store struct {
	DB        *gorm.DB
	Panels    panel.Repository
	Resellers reseller.ResellerRepository
	Configs   reseller.ConfigRepository
	Events    reseller.ConfigEventRepository
	Audits    reseller.AuditLogRepository
	Wallets   reseller.WalletTransactionRepository
	Settings  setting.Repository
	Factory   *MockClientFactory
}

func NewStore(t testing.TB) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	log := logger.NewNopLogger()
	require.NoError(t, migration.NewManager(db, log).Migrate(db))

	return &Store{
		DB:        db,
		Panels:    repository.NewPanelRepository(db, log),
		Resellers: repository.NewResellerRepository(db, log),
		Configs:   repository.NewResellerConfigRepository(db, log),
		Events:    repository.NewConfigEventRepository(db, log),
		Audits:    repository.NewAuditLogRepository(db, log),
		Wallets:   repository.NewWalletTransactionRepository(db, log),
		Settings:  repository.NewSystemSettingRepository(db, log),
		Factory:   NewMockClientFactory(),
	}
}

// CreatePanel registers a panel with full credentials.
func (s *Store) CreatePanel(t testing.TB, panelType panel.PanelType) *panel.Panel {
	t.Helper()
	p, err := panel.NewPanel("panel-"+panelType.String(), panelType, "http://panel.invalid", "admin", "secret", "api-key")
	require.NoError(t, err)
	require.NoError(t, s.Panels.Create(context.Background(), p))
	return p
}

// CreateReseller stores an active reseller.
func (s *Store) CreateReseller(t testing.TB, resellerType vo.ResellerType, totalBytes int64, windowEndsAt *time.Time) *reseller.Reseller {
	t.Helper()
	r, err := reseller.NewReseller("reseller", resellerType, totalBytes, nil, windowEndsAt)
	require.NoError(t, err)
	require.NoError(t, s.Resellers.Create(context.Background(), r))
	return r
}

// CreateWalletReseller stores an active wallet reseller.
func (s *Store) CreateWalletReseller(t testing.TB, balance, pricePerGB int64) *reseller.Reseller {
	t.Helper()
	r, err := reseller.NewReseller("wallet", vo.ResellerTypeWallet, 0, nil, nil)
	require.NoError(t, err)
	r.SetWallet(balance, pricePerGB)
	require.NoError(t, s.Resellers.Create(context.Background(), r))
	return r
}

// CreateConfig stores an active config with the given local usage and
// registers the remote user on the panel's mock client with the same usage.
func (s *Store) CreateConfig(t testing.TB, resellerID uint, p *panel.Panel, remoteID string, limitBytes, usageBytes int64) *reseller.Config {
	t.Helper()
	c, err := reseller.NewConfig(resellerID, p.ID(), p.Type(), remoteID, limitBytes, nil)
	require.NoError(t, err)
	c.RecordUsage(usageBytes, time.Now().UTC())
	require.NoError(t, s.Configs.Create(context.Background(), c))
	s.Factory.Client(p.ID()).SetUser(remoteID, usageBytes)
	return c
}

// Reseller reloads a reseller.
func (s *Store) Reseller(t testing.TB, id uint) *reseller.Reseller {
	t.Helper()
	r, err := s.Resellers.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, r)
	return r
}

// Config reloads a config.
func (s *Store) Config(t testing.TB, id uint) *reseller.Config {
	t.Helper()
	c, err := s.Configs.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, c)
	return c
}

// EventsFor returns a config's events, newest first.
func (s *Store) EventsFor(t testing.TB, configID uint) []*reseller.ConfigEvent {
	t.Helper()
	events, err := s.Events.ListByConfig(context.Background(), configID, 100)
	require.NoError(t, err)
	return events
}

// AuditsFor returns the audit entries of one target with the given action.
func (s *Store) AuditsFor(t testing.TB, targetType string, targetID uint, action string) []*reseller.AuditLog {
	t.Helper()
	logs, _, err := s.Audits.List(context.Background(), reseller.AuditLogFilter{
		TargetType: targetType,
		TargetID:   targetID,
		Action:     action,
		PageSize:   100,
	})
	require.NoError(t, err)
	return logs
}
