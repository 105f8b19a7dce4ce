package service

import (
	"context"
	"testing"
	"time"

	"curator/events"
	"curator/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGiveawayServiceFixture() (*MockUnitOfWork, *MockGiveawayRepository, GiveawayService) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockGiveawayRepo := new(MockGiveawayRepository)

	mockUoW.SetRepositories(nil, nil, nil, mockGiveawayRepo, nil)
	mockFactory.On("Create").Return(mockUoW)

	return mockUoW, mockGiveawayRepo, NewGiveawayService(mockFactory)
}

func activeGiveaway() *models.Giveaway {
	return &models.Giveaway{
		ID:           1,
		GuildID:      10,
		ChannelID:    20,
		MessageID:    30,
		Prize:        "steam key",
		WinnersCount: 1,
		Status:       models.GiveawayStatusActive,
		EndsAt:       time.Now().Add(time.Hour),
	}
}

func TestGiveawayService_OnButton_FirstPressJoins(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockGiveawayRepo, service := newGiveawayServiceFixture()

	giveaway := activeGiveaway()

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockGiveawayRepo.On("GetByMessageID", ctx, int64(30)).Return(giveaway, nil)
	mockGiveawayRepo.On("HasEntry", ctx, int64(1), int64(7)).Return(false, nil)
	mockGiveawayRepo.On("AddEntry", ctx, int64(1), int64(7)).Return(nil)
	mockGiveawayRepo.On("CountEntries", ctx, int64(1)).Return(4, nil)

	outcome, claimed, err := service.OnButton(ctx, ComponentEvent{
		GuildID: 10, ChannelID: 20, MessageID: 30, ActorID: 7,
		CustomID: BuildCustomID(GiveawayButtonNamespace, "enter"),
	})

	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Equal(t, models.OutcomeApplied, outcome.Status)
	assert.Equal(t, "entry added", outcome.Detail)
	mockGiveawayRepo.AssertNotCalled(t, "RemoveEntry")

	published := mockUoW.PublishedEvents()
	require.Len(t, published, 1)
	changed, ok := published[0].(events.GiveawayEntriesChangedEvent)
	require.True(t, ok)
	assert.Equal(t, 4, changed.Entries)
}

func TestGiveawayService_OnButton_SecondPressWithdraws(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockGiveawayRepo, service := newGiveawayServiceFixture()

	giveaway := activeGiveaway()

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockGiveawayRepo.On("GetByMessageID", ctx, int64(30)).Return(giveaway, nil)
	mockGiveawayRepo.On("HasEntry", ctx, int64(1), int64(7)).Return(true, nil)
	mockGiveawayRepo.On("RemoveEntry", ctx, int64(1), int64(7)).Return(nil)
	mockGiveawayRepo.On("CountEntries", ctx, int64(1)).Return(3, nil)

	outcome, claimed, err := service.OnButton(ctx, ComponentEvent{
		GuildID: 10, ChannelID: 20, MessageID: 30, ActorID: 7,
		CustomID: BuildCustomID(GiveawayButtonNamespace, "enter"),
	})

	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Equal(t, "entry removed", outcome.Detail)
	mockGiveawayRepo.AssertNotCalled(t, "AddEntry")
}

func TestGiveawayService_OnButton_EndedGiveawayRejected(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockGiveawayRepo, service := newGiveawayServiceFixture()

	giveaway := activeGiveaway()
	giveaway.Status = models.GiveawayStatusEnded

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockGiveawayRepo.On("GetByMessageID", ctx, int64(30)).Return(giveaway, nil)

	outcome, claimed, err := service.OnButton(ctx, ComponentEvent{
		GuildID: 10, ChannelID: 20, MessageID: 30, ActorID: 7,
		CustomID: BuildCustomID(GiveawayButtonNamespace, "enter"),
	})

	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Equal(t, models.OutcomeRejected, outcome.Status)
	mockGiveawayRepo.AssertNotCalled(t, "HasEntry")
	assert.Empty(t, mockUoW.PublishedEvents())
}

func TestGiveawayService_OnButton_UnknownMessageNotClaimed(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockGiveawayRepo, service := newGiveawayServiceFixture()

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockGiveawayRepo.On("GetByMessageID", ctx, int64(99)).Return((*models.Giveaway)(nil), nil)

	outcome, claimed, err := service.OnButton(ctx, ComponentEvent{
		GuildID: 10, ChannelID: 20, MessageID: 99, ActorID: 7,
		CustomID: BuildCustomID(GiveawayButtonNamespace, "enter"),
	})

	require.NoError(t, err)
	assert.False(t, claimed)
	assert.Equal(t, models.OutcomeSkipped, outcome.Status)
}

func TestGiveawayService_EndDue_DrawsWinnersOnce(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockGiveawayRepo, service := newGiveawayServiceFixture()

	now := time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)
	first := activeGiveaway()
	second := activeGiveaway()
	second.ID = 2
	second.MessageID = 31

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockGiveawayRepo.On("ListDue", ctx, now).Return([]*models.Giveaway{first, second}, nil)
	mockGiveawayRepo.On("MarkEnded", ctx, int64(1), now).Return(true, nil)
	mockGiveawayRepo.On("ListEntries", ctx, int64(1)).Return([]int64{7, 8, 9}, nil)

	// A manual end landed on the second giveaway before the sweep
	mockGiveawayRepo.On("MarkEnded", ctx, int64(2), now).Return(false, nil)

	ended, err := service.EndDue(ctx, now)

	require.NoError(t, err)
	assert.Equal(t, 1, ended)
	mockGiveawayRepo.AssertNotCalled(t, "ListEntries", ctx, int64(2))

	published := mockUoW.PublishedEvents()
	require.Len(t, published, 1)
	event, ok := published[0].(events.GiveawayEndedEvent)
	require.True(t, ok)
	assert.Equal(t, int64(1), event.GiveawayID)
	assert.Equal(t, 3, event.Entries)
	require.Len(t, event.WinnerIDs, 1)
	assert.Contains(t, []int64{7, 8, 9}, event.WinnerIDs[0])
}

func TestGiveawayService_EndDue_NoEntriesNoWinners(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockGiveawayRepo, service := newGiveawayServiceFixture()

	now := time.Now()
	giveaway := activeGiveaway()

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockGiveawayRepo.On("ListDue", ctx, now).Return([]*models.Giveaway{giveaway}, nil)
	mockGiveawayRepo.On("MarkEnded", ctx, int64(1), now).Return(true, nil)
	mockGiveawayRepo.On("ListEntries", ctx, int64(1)).Return([]int64{}, nil)

	ended, err := service.EndDue(ctx, now)

	require.NoError(t, err)
	assert.Equal(t, 1, ended)

	published := mockUoW.PublishedEvents()
	require.Len(t, published, 1)
	event := published[0].(events.GiveawayEndedEvent)
	assert.Empty(t, event.WinnerIDs)
	assert.Zero(t, event.Entries)
}

func TestDrawWinners(t *testing.T) {
	t.Run("caps at participant count", func(t *testing.T) {
		winners := drawWinners([]int64{7, 8}, 5)
		assert.Len(t, winners, 2)
	})

	t.Run("distinct winners", func(t *testing.T) {
		winners := drawWinners([]int64{7, 8, 9, 10}, 3)
		require.Len(t, winners, 3)
		seen := make(map[int64]bool)
		for _, winner := range winners {
			assert.False(t, seen[winner])
			seen[winner] = true
		}
	})

	t.Run("empty pool", func(t *testing.T) {
		assert.Nil(t, drawWinners(nil, 2))
	})
}

func TestGiveawayService_CreateGiveaway_Validation(t *testing.T) {
	ctx := context.Background()
	_, _, service := newGiveawayServiceFixture()

	err := service.CreateGiveaway(ctx, &models.Giveaway{Prize: "key", EndsAt: time.Now().Add(time.Hour)})
	assert.Error(t, err)

	err = service.CreateGiveaway(ctx, &models.Giveaway{MessageID: 30, EndsAt: time.Now().Add(time.Hour)})
	assert.Error(t, err)

	err = service.CreateGiveaway(ctx, &models.Giveaway{MessageID: 30, Prize: "key"})
	assert.Error(t, err)
}
