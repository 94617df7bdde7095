package service_test

import (
	"context"
	"testing"

	"notekeeper-be/internal/model"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/repository/unitofwork"
	"notekeeper-be/internal/testutil"
	"notekeeper-be/pkg/entitlement"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	factory unitofwork.RepositoryFactory
	gate    *entitlement.Gate
	log     logger.ILogger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	factory := unitofwork.NewRepositoryFactory(db)
	log := logger.NewNopLogger()
	gate := entitlement.NewGate(
		entitlement.NewStoreResolver(factory, log),
		entitlement.NewStoreCounter(factory, log),
		log,
	)
	return &fixture{db: db, factory: factory, gate: gate, log: log}
}

func (f *fixture) activeNotes(t *testing.T, userID uuid.UUID) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&model.Note{}).Where("user_id = ? AND is_trashed = ?", userID, false).Count(&count).Error)
	return count
}

func (f *fixture) folders(t *testing.T, userID uuid.UUID) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&model.Folder{}).Where("user_id = ?", userID).Count(&count).Error)
	return count
}

type MockGate struct {
	mock.Mock
}

func (m *MockGate) CheckAndReserve(ctx context.Context, userID uuid.UUID, kind entitlement.ResourceKind) (entitlement.Decision, error) {
	args := m.Called(ctx, userID, kind)
	return args.Get(0).(entitlement.Decision), args.Error(1)
}
