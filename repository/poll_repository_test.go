package repository

import (
	"context"
	"testing"

	"curator/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollRepository_CreateWithOptionsAndGetDetail(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPollRepository(testDB.DB)
	ctx := context.Background()

	poll := testutil.CreateTestPoll(3001)
	options := testutil.CreateTestPollOptions()
	require.NoError(t, repo.CreateWithOptions(ctx, poll, options))
	assert.NotZero(t, poll.ID)

	detail, err := repo.GetDetailByMessageID(ctx, 3001)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, poll.ID, detail.Poll.ID)
	require.Len(t, detail.Options, 2)

	// Options come back in definition order with zeroed vote snapshots
	assert.Equal(t, "🇦", detail.Options[0].Emoji)
	assert.Equal(t, "🇧", detail.Options[1].Emoji)
	assert.Equal(t, 0, detail.Options[0].Votes)
	assert.NotZero(t, detail.Options[0].ID)

	missing, err := repo.GetDetailByMessageID(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPollRepository_UpdateOptionVotes(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPollRepository(testDB.DB)
	ctx := context.Background()

	poll := testutil.CreateTestPoll(3002)
	options := testutil.CreateTestPollOptions()
	require.NoError(t, repo.CreateWithOptions(ctx, poll, options))

	require.NoError(t, repo.UpdateOptionVotes(ctx, options[0].ID, 5))

	detail, err := repo.GetDetailByID(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, detail.OptionByEmoji("🇦").Votes)
	assert.Equal(t, 0, detail.OptionByEmoji("🇧").Votes)

	err = repo.UpdateOptionVotes(ctx, 99999, 1)
	assert.Error(t, err)
}

func TestPollRepository_Close(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPollRepository(testDB.DB)
	ctx := context.Background()

	poll := testutil.CreateTestPoll(3003)
	require.NoError(t, repo.CreateWithOptions(ctx, poll, testutil.CreateTestPollOptions()))

	require.NoError(t, repo.Close(ctx, poll.ID))

	detail, err := repo.GetDetailByID(ctx, poll.ID)
	require.NoError(t, err)
	assert.True(t, detail.Poll.Closed)
	assert.NotNil(t, detail.Poll.ClosedAt)
}
