package implementation_test

import (
	"context"
	"testing"

	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/repository/implementation"
	"notekeeper-be/internal/repository/specification"
	"notekeeper-be/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteRepositoryFiltersAndCounts(t *testing.T) {
	db := testutil.NewDB(t)
	notes := implementation.NewNoteRepository(db)
	folders := implementation.NewFolderRepository(db)
	ctx := context.Background()
	userID := testutil.SeedUser(t, db)

	folder := &entity.Folder{Id: uuid.New(), UserId: userID, Name: "Work"}
	require.NoError(t, folders.Create(ctx, folder))

	create := func(title string, mutate func(n *entity.Note)) *entity.Note {
		n := &entity.Note{Id: uuid.New(), UserId: userID, Title: title, Content: "body of " + title}
		if mutate != nil {
			mutate(n)
		}
		require.NoError(t, notes.Create(ctx, n))
		return n
	}
	create("Groceries", nil)
	create("Quarterly Plan", func(n *entity.Note) { n.FolderId = &folder.Id; n.IsFavorite = true })
	create("Old ideas", func(n *entity.Note) { n.IsArchived = true })
	create("Deleted draft", func(n *entity.Note) { n.IsTrashed = true; n.FolderId = &folder.Id })

	count := func(specs ...specification.Specification) int64 {
		c, err := notes.Count(ctx, append([]specification.Specification{specification.ByUserID{UserID: userID}}, specs...)...)
		require.NoError(t, err)
		return c
	}
	assert.Equal(t, int64(3), count(specification.ActiveNotes{}))
	assert.Equal(t, int64(2), count(specification.InboxNotes{}))
	assert.Equal(t, int64(1), count(specification.FavoriteNotes{}))
	assert.Equal(t, int64(1), count(specification.ArchivedNotes{}))
	assert.Equal(t, int64(1), count(specification.TrashedNotes{}))
	assert.Equal(t, int64(1), count(specification.NoteSearchQuery{Query: "quarterly"}))
	assert.Equal(t, int64(1), count(specification.NoteSearchQuery{Query: "BODY OF GROC"}))

	byFolder, err := notes.CountByFolder(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]int64{folder.Id: 1}, byFolder)

	require.NoError(t, notes.Unfile(ctx, folder.Id))
	assert.Zero(t, count(specification.ByFolderID{FolderID: folder.Id}))

	deleted, err := notes.DeleteAll(ctx, specification.ByUserID{UserID: userID}, specification.TrashedNotes{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = notes.DeleteAll(ctx)
	assert.Error(t, err)
}

func TestNoteRepositoryFindOneMissing(t *testing.T) {
	db := testutil.NewDB(t)
	notes := implementation.NewNoteRepository(db)

	n, err := notes.FindOne(context.Background(), specification.ByID{ID: uuid.New()})
	require.NoError(t, err)
	assert.Nil(t, n)
}
