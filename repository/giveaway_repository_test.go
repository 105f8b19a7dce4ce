package repository

import (
	"context"
	"testing"
	"time"

	"curator/models"
	"curator/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGiveawayRepository_EntryToggleRoundTrip(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGiveawayRepository(testDB.DB)
	ctx := context.Background()

	giveaway := testutil.CreateTestGiveaway(2001)
	require.NoError(t, repo.Create(ctx, giveaway))
	assert.NotZero(t, giveaway.ID)

	entered, err := repo.HasEntry(ctx, giveaway.ID, 7)
	require.NoError(t, err)
	assert.False(t, entered)

	require.NoError(t, repo.AddEntry(ctx, giveaway.ID, 7))
	require.NoError(t, repo.AddEntry(ctx, giveaway.ID, 8))

	// Re-adding the same participant is a no-op, not an error
	require.NoError(t, repo.AddEntry(ctx, giveaway.ID, 7))

	count, err := repo.CountEntries(ctx, giveaway.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	entries, err := repo.ListEntries(ctx, giveaway.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{7, 8}, entries)

	require.NoError(t, repo.RemoveEntry(ctx, giveaway.ID, 7))

	entered, err = repo.HasEntry(ctx, giveaway.ID, 7)
	require.NoError(t, err)
	assert.False(t, entered)

	count, err = repo.CountEntries(ctx, giveaway.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGiveawayRepository_MarkEnded_OnlyFirstWriterWins(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGiveawayRepository(testDB.DB)
	ctx := context.Background()

	giveaway := testutil.CreateTestGiveaway(2002)
	require.NoError(t, repo.Create(ctx, giveaway))

	now := time.Now()
	won, err := repo.MarkEnded(ctx, giveaway.ID, now)
	require.NoError(t, err)
	assert.True(t, won)

	won, err = repo.MarkEnded(ctx, giveaway.ID, now)
	require.NoError(t, err)
	assert.False(t, won)

	fetched, err := repo.GetByID(ctx, giveaway.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GiveawayStatusEnded, fetched.Status)
	assert.NotNil(t, fetched.EndedAt)
}

func TestGiveawayRepository_ListDue(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGiveawayRepository(testDB.DB)
	ctx := context.Background()

	now := time.Now()

	due := testutil.CreateTestGiveawayEndingAt(2003, now.Add(-time.Minute))
	require.NoError(t, repo.Create(ctx, due))

	running := testutil.CreateTestGiveawayEndingAt(2004, now.Add(time.Hour))
	require.NoError(t, repo.Create(ctx, running))

	alreadyEnded := testutil.CreateTestGiveawayEndingAt(2005, now.Add(-time.Hour))
	require.NoError(t, repo.Create(ctx, alreadyEnded))
	won, err := repo.MarkEnded(ctx, alreadyEnded.ID, now)
	require.NoError(t, err)
	require.True(t, won)

	listed, err := repo.ListDue(ctx, now)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, due.ID, listed[0].ID)
}
