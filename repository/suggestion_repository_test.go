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

func TestSuggestionRepository_CreateAndGet(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewSuggestionRepository(testDB.DB)
	ctx := context.Background()

	suggestion := testutil.CreateTestSuggestion(1001)
	err := repo.Create(ctx, suggestion)
	require.NoError(t, err)
	assert.NotZero(t, suggestion.ID)
	assert.False(t, suggestion.CreatedAt.IsZero())

	fetched, err := repo.GetByMessageID(ctx, 1001)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, suggestion.ID, fetched.ID)
	assert.Equal(t, models.SuggestionStatusPending, fetched.Status)
	assert.Equal(t, 0, fetched.Upvotes)
	assert.Nil(t, fetched.ReviewedBy)

	missing, err := repo.GetByMessageID(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSuggestionRepository_UpdateVoteCounts(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewSuggestionRepository(testDB.DB)
	ctx := context.Background()

	suggestion := testutil.CreateTestSuggestion(1002)
	require.NoError(t, repo.Create(ctx, suggestion))

	err := repo.UpdateVoteCounts(ctx, suggestion.ID, 4, 1)
	require.NoError(t, err)

	fetched, err := repo.GetByID(ctx, suggestion.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, fetched.Upvotes)
	assert.Equal(t, 1, fetched.Downvotes)

	err = repo.UpdateVoteCounts(ctx, 99999, 1, 0)
	assert.Error(t, err)
}

func TestSuggestionRepository_Resolve_OnlyFirstWriterWins(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewSuggestionRepository(testDB.DB)
	ctx := context.Background()

	suggestion := testutil.CreateTestSuggestion(1003)
	require.NoError(t, repo.Create(ctx, suggestion))

	now := time.Now()
	won, err := repo.Resolve(ctx, suggestion.ID, models.SuggestionStatusApproved, models.SystemReviewer, now)
	require.NoError(t, err)
	assert.True(t, won)

	// Second attempt models the expiry sweep losing the race
	won, err = repo.Resolve(ctx, suggestion.ID, models.SuggestionStatusExpired, models.SystemReviewer, now)
	require.NoError(t, err)
	assert.False(t, won)

	fetched, err := repo.GetByID(ctx, suggestion.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SuggestionStatusApproved, fetched.Status)
	require.NotNil(t, fetched.ReviewedBy)
	assert.Equal(t, models.SystemReviewer, *fetched.ReviewedBy)
	assert.NotNil(t, fetched.ReviewedAt)
}

func TestSuggestionRepository_ListExpiredPending(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewSuggestionRepository(testDB.DB)
	ctx := context.Background()

	now := time.Now()

	expired := testutil.CreateTestSuggestionExpiringAt(1004, now.Add(-time.Hour))
	require.NoError(t, repo.Create(ctx, expired))

	expiredButResolved := testutil.CreateTestSuggestionExpiringAt(1005, now.Add(-time.Hour))
	require.NoError(t, repo.Create(ctx, expiredButResolved))
	won, err := repo.Resolve(ctx, expiredButResolved.ID, models.SuggestionStatusDenied, models.SystemReviewer, now)
	require.NoError(t, err)
	require.True(t, won)

	future := testutil.CreateTestSuggestionExpiringAt(1006, now.Add(time.Hour))
	require.NoError(t, repo.Create(ctx, future))

	listed, err := repo.ListExpiredPending(ctx, now)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, expired.ID, listed[0].ID)
}
