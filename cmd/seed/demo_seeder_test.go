package main

import (
	"testing"

	"notekeeper-be/internal/model"
	"notekeeper-be/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedAccountConverges(t *testing.T) {
	db := testutil.NewDB(t)

	for run := 0; run < 2; run++ {
		for _, account := range demoAccounts() {
			require.NoError(t, SeedAccount(db, account))
		}
	}

	for _, account := range demoAccounts() {
		var notes, folders, subs int64
		require.NoError(t, db.Model(&model.Note{}).Where("user_id = ?", account.Id).Count(&notes).Error)
		require.NoError(t, db.Model(&model.Folder{}).Where("user_id = ?", account.Id).Count(&folders).Error)
		require.NoError(t, db.Model(&model.Subscription{}).Where("user_id = ?", account.Id).Count(&subs).Error)

		assert.EqualValues(t, account.Notes, notes, account.Email)
		assert.EqualValues(t, account.Folders, folders, account.Email)
		assert.EqualValues(t, 1, subs, account.Email)
	}
}
