package implementation_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/repository/implementation"
	"notekeeper-be/internal/repository/specification"
	"notekeeper-be/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionCreateIfAbsent(t *testing.T) {
	db := testutil.NewDB(t)
	repo := implementation.NewSubscriptionRepository(db)
	ctx := context.Background()
	userID := testutil.SeedUser(t, db)

	var wg sync.WaitGroup
	created := make(chan bool, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.CreateIfAbsent(ctx, entity.DefaultSubscription(userID, time.Now().UTC()))
			assert.NoError(t, err)
			created <- ok
		}()
	}
	wg.Wait()
	close(created)

	wins := 0
	for ok := range created {
		if ok {
			wins++
		}
	}
	assert.Equal(t, 1, wins)

	sub, err := repo.FindOne(ctx, specification.ByUserID{UserID: userID})
	require.NoError(t, err)
	assert.Equal(t, entity.TierFree, sub.Plan)
	assert.Equal(t, entity.SubscriptionStatusActive, sub.Status)
}

func TestSubscriptionUpsertGuardsOnUpdatedAt(t *testing.T) {
	db := testutil.NewDB(t)
	repo := implementation.NewSubscriptionRepository(db)
	ctx := context.Background()
	userID := testutil.SeedUser(t, db)
	t0 := time.Now().UTC().Truncate(time.Second)

	session := "txn_1"
	newer := &entity.Subscription{
		UserId:            userID,
		Plan:              entity.TierPro,
		Status:            entity.SubscriptionStatusActive,
		PaymentSessionRef: &session,
		UpdatedAt:         t0,
	}
	applied, err := repo.Upsert(ctx, newer)
	require.NoError(t, err)
	assert.True(t, applied)
	storedID := newer.Id

	older := &entity.Subscription{
		UserId:    userID,
		Plan:      entity.TierPro,
		Status:    entity.SubscriptionStatusCanceled,
		UpdatedAt: t0.Add(-time.Minute),
	}
	applied, err = repo.Upsert(ctx, older)
	require.NoError(t, err)
	assert.False(t, applied)

	sub, err := repo.FindOne(ctx, specification.ByUserID{UserID: userID})
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionStatusActive, sub.Status)
	assert.Equal(t, "txn_1", *sub.PaymentSessionRef)

	same := *sub
	applied, err = repo.Upsert(ctx, &same)
	require.NoError(t, err)
	assert.True(t, applied, "an event with the stored timestamp is re-applied")
	assert.Equal(t, storedID, same.Id)

	later := *sub
	later.Status = entity.SubscriptionStatusPastDue
	later.PaymentSessionRef = nil
	later.UpdatedAt = t0.Add(time.Minute)
	applied, err = repo.Upsert(ctx, &later)
	require.NoError(t, err)
	assert.True(t, applied)

	sub, err = repo.FindOne(ctx, specification.ByUserID{UserID: userID})
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionStatusPastDue, sub.Status)
	assert.Nil(t, sub.PaymentSessionRef, "writes carry the full state")
	assert.Equal(t, storedID, sub.Id)
}

func TestSubscriptionSetCustomerRefKeepsTimestamp(t *testing.T) {
	db := testutil.NewDB(t)
	repo := implementation.NewSubscriptionRepository(db)
	ctx := context.Background()
	userID := testutil.SeedUser(t, db)
	testutil.SeedSubscription(t, db, userID, entity.TierFree, entity.SubscriptionStatusActive, entity.NoEventApplied)

	require.NoError(t, repo.SetCustomerRef(ctx, userID, "ctm_1"))

	sub, err := repo.FindOne(ctx, specification.ByUserID{UserID: userID})
	require.NoError(t, err)
	assert.Equal(t, "ctm_1", *sub.PaymentCustomerRef)
	assert.True(t, entity.NoEventApplied.Equal(sub.UpdatedAt))

	found, err := repo.FindOne(ctx, specification.ByPaymentCustomerRef{Ref: "ctm_1"})
	require.NoError(t, err)
	assert.Equal(t, userID, found.UserId)
}
