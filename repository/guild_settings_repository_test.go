package repository

import (
	"context"
	"testing"

	"curator/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuildSettingsRepository_GetOrCreateAndUpdate(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGuildSettingsRepository(testDB.DB)
	ctx := context.Background()

	settings, err := repo.GetOrCreate(ctx, 100, 30)
	require.NoError(t, err)
	require.NotNil(t, settings)
	assert.Equal(t, int64(100), settings.GuildID)
	assert.Nil(t, settings.ApproveThreshold)
	assert.Nil(t, settings.DenyThreshold)

	// A fresh row is seeded with the passed expiry default
	assert.Equal(t, 30, settings.SuggestionExpiryDays)

	// Second call returns the existing row, not a fresh one; the row keeps
	// its own expiry even when the default has since changed
	again, err := repo.GetOrCreate(ctx, 100, 7)
	require.NoError(t, err)
	assert.Equal(t, settings.CreatedAt, again.CreatedAt)
	assert.Equal(t, 30, again.SuggestionExpiryDays)

	approve := 5
	channel := int64(200)
	settings.ApproveThreshold = &approve
	settings.SuggestionChannelID = &channel
	require.NoError(t, repo.Update(ctx, settings))

	updated, err := repo.GetOrCreate(ctx, 100, 30)
	require.NoError(t, err)
	require.NotNil(t, updated.ApproveThreshold)
	assert.Equal(t, 5, *updated.ApproveThreshold)
	require.NotNil(t, updated.SuggestionChannelID)
	assert.Equal(t, int64(200), *updated.SuggestionChannelID)
	assert.Nil(t, updated.DenyThreshold)
}
