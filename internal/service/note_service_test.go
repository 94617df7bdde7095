package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/model"
	"notekeeper-be/internal/service"
	"notekeeper-be/internal/testutil"
	"notekeeper-be/pkg/entitlement"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateNoteAtFreeLimitIsDenied(t *testing.T) {
	f := newFixture(t)
	svc := service.NewNoteService(f.factory, f.gate, f.log)
	userID := testutil.SeedUser(t, f.db)
	testutil.SeedNotes(t, f.db, userID, int(entitlement.FreeNoteLimit), false)

	_, err := svc.Create(context.Background(), userID, &dto.CreateNoteRequest{Title: "one too many"})

	denied, ok := entitlement.AsDenied(err)
	require.True(t, ok, "expected a denial, got %v", err)
	assert.Equal(t, entitlement.NoteLimitReached, denied.Reason)
	assert.Equal(t, entitlement.FreeNoteLimit, denied.Limit)
	assert.Equal(t, entitlement.FreeNoteLimit, f.activeNotes(t, userID))
}

func TestTrashingFreesANoteSlot(t *testing.T) {
	f := newFixture(t)
	svc := service.NewNoteService(f.factory, f.gate, f.log)
	ctx := context.Background()
	userID := testutil.SeedUser(t, f.db)
	testutil.SeedNotes(t, f.db, userID, int(entitlement.FreeNoteLimit)-1, false)

	last, err := svc.Create(ctx, userID, &dto.CreateNoteRequest{Title: "twentieth"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, userID, &dto.CreateNoteRequest{Title: "blocked"})
	require.Error(t, err)

	_, err = svc.Trash(ctx, userID, last.Id)
	require.NoError(t, err)

	_, err = svc.Create(ctx, userID, &dto.CreateNoteRequest{Title: "fits again"})
	require.NoError(t, err)
	assert.Equal(t, entitlement.FreeNoteLimit, f.activeNotes(t, userID))
}

func TestRestoreNeedsAFreeSlot(t *testing.T) {
	f := newFixture(t)
	svc := service.NewNoteService(f.factory, f.gate, f.log)
	ctx := context.Background()
	userID := testutil.SeedUser(t, f.db)

	trashed, err := svc.Create(ctx, userID, &dto.CreateNoteRequest{Title: "old"})
	require.NoError(t, err)
	_, err = svc.Trash(ctx, userID, trashed.Id)
	require.NoError(t, err)
	testutil.SeedNotes(t, f.db, userID, int(entitlement.FreeNoteLimit), false)

	_, err = svc.Restore(ctx, userID, trashed.Id)
	denied, ok := entitlement.AsDenied(err)
	require.True(t, ok)
	assert.Equal(t, entitlement.NoteLimitReached, denied.Reason)

	notes, err := svc.List(ctx, userID, &dto.ListNotesRequest{Filter: dto.NoteFilterAll, Limit: 1})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	_, err = svc.Trash(ctx, userID, notes[0].Id)
	require.NoError(t, err)

	restored, err := svc.Restore(ctx, userID, trashed.Id)
	require.NoError(t, err)
	assert.False(t, restored.IsTrashed)
	assert.Nil(t, restored.TrashedAt)
}

func TestProUserIsNotCapped(t *testing.T) {
	f := newFixture(t)
	svc := service.NewNoteService(f.factory, f.gate, f.log)
	userID := testutil.SeedUser(t, f.db)
	testutil.SeedSubscription(t, f.db, userID, entity.TierPro, entity.SubscriptionStatusActive, time.Now())
	testutil.SeedNotes(t, f.db, userID, 100, false)

	_, err := svc.Create(context.Background(), userID, &dto.CreateNoteRequest{Title: "101"})
	require.NoError(t, err)
	assert.Equal(t, int64(101), f.activeNotes(t, userID))
}

func TestCanceledProFallsBackToFreeLimits(t *testing.T) {
	f := newFixture(t)
	svc := service.NewNoteService(f.factory, f.gate, f.log)
	userID := testutil.SeedUser(t, f.db)
	testutil.SeedSubscription(t, f.db, userID, entity.TierPro, entity.SubscriptionStatusCanceled, time.Now())
	testutil.SeedNotes(t, f.db, userID, 30, false)

	_, err := svc.Create(context.Background(), userID, &dto.CreateNoteRequest{Title: "31"})
	_, ok := entitlement.AsDenied(err)
	assert.True(t, ok)
	assert.Equal(t, int64(30), f.activeNotes(t, userID))
}

func TestGateFailureBlocksTheWrite(t *testing.T) {
	f := newFixture(t)
	gate := &MockGate{}
	userID := uuid.New()
	gate.On("CheckAndReserve", mock.Anything, userID, entitlement.ResourceNote).
		Return(entitlement.Decision{}, fmt.Errorf("%w: connection refused", entitlement.ErrResolutionFailed))
	svc := service.NewNoteService(f.factory, gate, f.log)

	_, err := svc.Create(context.Background(), userID, &dto.CreateNoteRequest{Title: "x"})

	assert.True(t, errors.Is(err, entitlement.ErrResolutionFailed))
	_, denied := entitlement.AsDenied(err)
	assert.False(t, denied)
	assert.Zero(t, f.activeNotes(t, userID))
	gate.AssertExpectations(t)
}

func TestCreateNoteRejectsForeignFolder(t *testing.T) {
	f := newFixture(t)
	svc := service.NewNoteService(f.factory, f.gate, f.log)
	owner := testutil.SeedUser(t, f.db)
	intruder := testutil.SeedUser(t, f.db)
	folderID := uuid.New()
	require.NoError(t, f.db.Create(&model.Folder{Id: folderID, UserId: owner, Name: "private"}).Error)

	_, err := svc.Create(context.Background(), intruder, &dto.CreateNoteRequest{Title: "x", FolderId: &folderID})

	assert.ErrorIs(t, err, service.ErrFolderNotFound)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestNoteFlagsAndListing(t *testing.T) {
	f := newFixture(t)
	svc := service.NewNoteService(f.factory, f.gate, f.log)
	ctx := context.Background()
	userID := testutil.SeedUser(t, f.db)

	ids := make([]uuid.UUID, 0, 4)
	for _, title := range []string{"Groceries", "Project plan", "Old ideas", "Trip"} {
		res, err := svc.Create(ctx, userID, &dto.CreateNoteRequest{Title: title})
		require.NoError(t, err)
		ids = append(ids, res.Id)
	}

	_, err := svc.SetFavorite(ctx, userID, ids[1], true)
	require.NoError(t, err)
	_, err = svc.SetArchived(ctx, userID, ids[2], true)
	require.NoError(t, err)
	_, err = svc.Trash(ctx, userID, ids[3])
	require.NoError(t, err)

	tests := []struct {
		filter string
		query  string
		want   []string
	}{
		{dto.NoteFilterAll, "", []string{"Groceries", "Project plan"}},
		{dto.NoteFilterFavorites, "", []string{"Project plan"}},
		{dto.NoteFilterArchived, "", []string{"Old ideas"}},
		{dto.NoteFilterTrash, "", []string{"Trip"}},
		{dto.NoteFilterAll, "PLAN", []string{"Project plan"}},
	}
	for _, tt := range tests {
		t.Run(tt.filter+"/"+tt.query, func(t *testing.T) {
			notes, err := svc.List(ctx, userID, &dto.ListNotesRequest{Filter: tt.filter, Query: tt.query})
			require.NoError(t, err)
			titles := make([]string, 0, len(notes))
			for _, n := range notes {
				titles = append(titles, n.Title)
			}
			assert.ElementsMatch(t, tt.want, titles)
		})
	}

	// Archiving does not free a slot; only trash does.
	assert.Equal(t, int64(3), f.activeNotes(t, userID))
}

func TestEmptyTrashDeletesOnlyTrashedNotesOfTheUser(t *testing.T) {
	f := newFixture(t)
	svc := service.NewNoteService(f.factory, f.gate, f.log)
	userID := testutil.SeedUser(t, f.db)
	other := testutil.SeedUser(t, f.db)
	testutil.SeedNotes(t, f.db, userID, 3, true)
	testutil.SeedNotes(t, f.db, userID, 2, false)
	testutil.SeedNotes(t, f.db, other, 4, true)

	res, err := svc.EmptyTrash(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Deleted)

	var remaining int64
	require.NoError(t, f.db.Model(&model.Note{}).Where("user_id = ?", other).Count(&remaining).Error)
	assert.Equal(t, int64(4), remaining)
	assert.Equal(t, int64(2), f.activeNotes(t, userID))
}

func TestNoteOfAnotherUserIsNotFound(t *testing.T) {
	f := newFixture(t)
	svc := service.NewNoteService(f.factory, f.gate, f.log)
	ctx := context.Background()
	owner := testutil.SeedUser(t, f.db)
	note, err := svc.Create(ctx, owner, &dto.CreateNoteRequest{Title: "mine"})
	require.NoError(t, err)

	stranger := testutil.SeedUser(t, f.db)
	_, err = svc.Show(ctx, stranger, note.Id)
	assert.ErrorIs(t, err, service.ErrNoteNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, stranger, note.Id), service.ErrNoteNotFound)
}
