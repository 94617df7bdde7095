package entitlement

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPlanResolver struct {
	mock.Mock
}

func (m *MockPlanResolver) Resolve(ctx context.Context, userID uuid.UUID) (Plan, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(Plan), args.Error(1)
}

type MockResourceCounter struct {
	mock.Mock
}

func (m *MockResourceCounter) Count(ctx context.Context, userID uuid.UUID, kind ResourceKind) (int64, error) {
	args := m.Called(ctx, userID, kind)
	return args.Get(0).(int64), args.Error(1)
}

func newTestGate() (*Gate, *MockPlanResolver, *MockResourceCounter) {
	resolver := new(MockPlanResolver)
	counter := new(MockResourceCounter)
	return NewGate(resolver, counter, logger.NewNopLogger()), resolver, counter
}

func TestGateFreeUserAtNineteenNotes(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	gate, resolver, counter := newTestGate()

	resolver.On("Resolve", ctx, userID).Return(DefaultPlan(), nil)
	counter.On("Count", ctx, userID, ResourceNote).Return(int64(19), nil).Once()
	counter.On("Count", ctx, userID, ResourceNote).Return(int64(20), nil).Once()

	first, err := gate.CheckAndReserve(ctx, userID, ResourceNote)
	require.NoError(t, err)
	assert.True(t, first.Allowed)

	second, err := gate.CheckAndReserve(ctx, userID, ResourceNote)
	require.NoError(t, err)
	assert.False(t, second.Allowed)
	assert.Equal(t, NoteLimitReached, second.Reason)
	assert.Equal(t, FreeNoteLimit, second.Limit)

	resolver.AssertExpectations(t)
	counter.AssertExpectations(t)
}

func TestGatePastDueProIsDenied(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	gate, resolver, counter := newTestGate()

	resolver.On("Resolve", ctx, userID).Return(Plan{Tier: entity.TierPro, Status: entity.SubscriptionStatusPastDue}, nil)
	counter.On("Count", ctx, userID, ResourceNote).Return(int64(20), nil)

	decision, err := gate.CheckAndReserve(ctx, userID, ResourceNote)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, NoteLimitReached, decision.Reason)
}

func TestGateActiveProCreatesHundredFolders(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	gate, resolver, counter := newTestGate()

	resolver.On("Resolve", ctx, userID).Return(Plan{Tier: entity.TierPro, Status: entity.SubscriptionStatusActive}, nil)
	for i := 0; i < 100; i++ {
		counter.On("Count", ctx, userID, ResourceFolder).Return(int64(i), nil).Once()
	}

	for i := 0; i < 100; i++ {
		decision, err := gate.CheckAndReserve(ctx, userID, ResourceFolder)
		require.NoError(t, err)
		assert.True(t, decision.Allowed, "attempt %d", i)
		assert.Equal(t, Unlimited, decision.Limit)
	}
}

func TestGateFolderLimit(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	gate, resolver, counter := newTestGate()

	resolver.On("Resolve", ctx, userID).Return(DefaultPlan(), nil)
	counter.On("Count", ctx, userID, ResourceFolder).Return(int64(5), nil)

	decision, err := gate.CheckAndReserve(ctx, userID, ResourceFolder)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, FolderLimitReached, decision.Reason)

	denied, ok := AsDenied(decision.Err())
	require.True(t, ok)
	assert.Equal(t, ResourceFolder, denied.Kind)
}

func TestGateInfrastructureFailuresAreErrors(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("resolution", func(t *testing.T) {
		gate, resolver, counter := newTestGate()
		resolver.On("Resolve", ctx, userID).Return(Plan{}, fmt.Errorf("%w: connection refused", ErrResolutionFailed))

		decision, err := gate.CheckAndReserve(ctx, userID, ResourceNote)
		assert.ErrorIs(t, err, ErrResolutionFailed)
		assert.False(t, decision.Allowed)
		assert.Empty(t, decision.Reason)
		counter.AssertNotCalled(t, "Count", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("count", func(t *testing.T) {
		gate, resolver, counter := newTestGate()
		resolver.On("Resolve", ctx, userID).Return(DefaultPlan(), nil)
		counter.On("Count", ctx, userID, ResourceNote).Return(int64(0), fmt.Errorf("%w: timeout", ErrCountFailed))

		_, err := gate.CheckAndReserve(ctx, userID, ResourceNote)
		assert.ErrorIs(t, err, ErrCountFailed)
		_, denied := AsDenied(err)
		assert.False(t, denied)
	})

	t.Run("unknown kind", func(t *testing.T) {
		gate, resolver, _ := newTestGate()
		_, err := gate.CheckAndReserve(ctx, userID, ResourceKind("tag"))
		assert.True(t, errors.Is(err, ErrUnknownResource))
		resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
	})
}

func TestGateSnapshot(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	gate, resolver, counter := newTestGate()

	resolver.On("Resolve", ctx, userID).Return(DefaultPlan(), nil)
	counter.On("Count", ctx, userID, ResourceNote).Return(int64(7), nil)
	counter.On("Count", ctx, userID, ResourceFolder).Return(int64(2), nil)

	snap, err := gate.Snapshot(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, Snapshot{
		Plan:         DefaultPlan(),
		NotesCount:   7,
		FoldersCount: 2,
		NoteLimit:    FreeNoteLimit,
		FolderLimit:  FreeFolderLimit,
	}, snap)
}
