package service

import (
	"context"
	"errors"
	"testing"

	"curator/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReactionRoleServiceFixture() (*MockUnitOfWork, *MockReactionRoleRepository, *MockChatGateway, ReactionRoleService) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockReactionRoleRepo := new(MockReactionRoleRepository)
	mockGateway := new(MockChatGateway)

	mockUoW.SetRepositories(mockReactionRoleRepo, nil, nil, nil, nil)
	mockFactory.On("Create").Return(mockUoW)

	return mockUoW, mockReactionRoleRepo, mockGateway, NewReactionRoleService(mockFactory, mockGateway)
}

func colorBinding() *models.ReactionRole {
	return &models.ReactionRole{
		ID:        1,
		GuildID:   10,
		ChannelID: 20,
		MessageID: 30,
		Emoji:     "🔵",
		RoleID:    400,
	}
}

func TestReactionRoleService_OnReaction_AddGrantsRole(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockReactionRoleRepo, mockGateway, service := newReactionRoleServiceFixture()

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockReactionRoleRepo.On("GetByMessageAndEmoji", ctx, int64(30), "🔵").Return(colorBinding(), nil)
	mockGateway.On("MemberHasRole", ctx, int64(10), int64(7), int64(400)).Return(false, nil)
	mockGateway.On("GrantRole", ctx, int64(10), int64(7), int64(400)).Return(nil)

	outcome, claimed, err := service.OnReaction(ctx, ReactionEvent{
		GuildID: 10, ChannelID: 20, MessageID: 30, ActorID: 7,
		Emoji: "🔵", Kind: EventKindAdd,
	})

	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Equal(t, models.OutcomeApplied, outcome.Status)
	mockGateway.AssertExpectations(t)
}

func TestReactionRoleService_OnReaction_AddIdempotentWhenHeld(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockReactionRoleRepo, mockGateway, service := newReactionRoleServiceFixture()

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockReactionRoleRepo.On("GetByMessageAndEmoji", ctx, int64(30), "🔵").Return(colorBinding(), nil)
	mockGateway.On("MemberHasRole", ctx, int64(10), int64(7), int64(400)).Return(true, nil)

	outcome, claimed, err := service.OnReaction(ctx, ReactionEvent{
		GuildID: 10, ChannelID: 20, MessageID: 30, ActorID: 7,
		Emoji: "🔵", Kind: EventKindAdd,
	})

	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Equal(t, models.OutcomeSkipped, outcome.Status)
	mockGateway.AssertNotCalled(t, "GrantRole")
}

func TestReactionRoleService_OnReaction_RemoveRevokesRole(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockReactionRoleRepo, mockGateway, service := newReactionRoleServiceFixture()

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockReactionRoleRepo.On("GetByMessageAndEmoji", ctx, int64(30), "🔵").Return(colorBinding(), nil)
	mockGateway.On("MemberHasRole", ctx, int64(10), int64(7), int64(400)).Return(true, nil)
	mockGateway.On("RevokeRole", ctx, int64(10), int64(7), int64(400)).Return(nil)

	outcome, claimed, err := service.OnReaction(ctx, ReactionEvent{
		GuildID: 10, ChannelID: 20, MessageID: 30, ActorID: 7,
		Emoji: "🔵", Kind: EventKindRemove,
	})

	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Equal(t, models.OutcomeApplied, outcome.Status)
}

func TestReactionRoleService_OnReaction_RemoveIdempotentWhenNotHeld(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockReactionRoleRepo, mockGateway, service := newReactionRoleServiceFixture()

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockReactionRoleRepo.On("GetByMessageAndEmoji", ctx, int64(30), "🔵").Return(colorBinding(), nil)
	mockGateway.On("MemberHasRole", ctx, int64(10), int64(7), int64(400)).Return(false, nil)

	outcome, _, err := service.OnReaction(ctx, ReactionEvent{
		GuildID: 10, ChannelID: 20, MessageID: 30, ActorID: 7,
		Emoji: "🔵", Kind: EventKindRemove,
	})

	require.NoError(t, err)
	assert.Equal(t, models.OutcomeSkipped, outcome.Status)
	mockGateway.AssertNotCalled(t, "RevokeRole")
}

func TestReactionRoleService_OnReaction_PlatformFailureIsSkip(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockReactionRoleRepo, mockGateway, service := newReactionRoleServiceFixture()

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockReactionRoleRepo.On("GetByMessageAndEmoji", ctx, int64(30), "🔵").Return(colorBinding(), nil)
	mockGateway.On("MemberHasRole", ctx, int64(10), int64(7), int64(400)).Return(false, nil)
	mockGateway.On("GrantRole", ctx, int64(10), int64(7), int64(400)).Return(errors.New("missing permissions"))

	outcome, claimed, err := service.OnReaction(ctx, ReactionEvent{
		GuildID: 10, ChannelID: 20, MessageID: 30, ActorID: 7,
		Emoji: "🔵", Kind: EventKindAdd,
	})

	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Equal(t, models.OutcomeSkipped, outcome.Status)
}

func TestReactionRoleService_OnReaction_UnboundEmojiOnOwnedMessage(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockReactionRoleRepo, mockGateway, service := newReactionRoleServiceFixture()

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockReactionRoleRepo.On("GetByMessageAndEmoji", ctx, int64(30), "🎉").Return((*models.ReactionRole)(nil), nil)
	mockReactionRoleRepo.On("ExistsForMessage", ctx, int64(30)).Return(true, nil)

	outcome, claimed, err := service.OnReaction(ctx, ReactionEvent{
		GuildID: 10, ChannelID: 20, MessageID: 30, ActorID: 7,
		Emoji: "🎉", Kind: EventKindAdd,
	})

	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Equal(t, models.OutcomeSkipped, outcome.Status)
	mockGateway.AssertNotCalled(t, "MemberHasRole")
}

func TestReactionRoleService_OnReaction_UnknownMessageNotClaimed(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockReactionRoleRepo, _, service := newReactionRoleServiceFixture()

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockReactionRoleRepo.On("GetByMessageAndEmoji", ctx, int64(99), "🔵").Return((*models.ReactionRole)(nil), nil)
	mockReactionRoleRepo.On("ExistsForMessage", ctx, int64(99)).Return(false, nil)

	_, claimed, err := service.OnReaction(ctx, ReactionEvent{
		GuildID: 10, ChannelID: 20, MessageID: 99, ActorID: 7,
		Emoji: "🔵", Kind: EventKindAdd,
	})

	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestReactionRoleService_ListBindings(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockReactionRoleRepo, _, service := newReactionRoleServiceFixture()

	second := colorBinding()
	second.ID = 2
	second.Emoji = "🔴"
	second.RoleID = 401

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockReactionRoleRepo.On("GetByMessage", ctx, int64(30)).Return([]*models.ReactionRole{colorBinding(), second}, nil)

	bindings, err := service.ListBindings(ctx, 30)

	require.NoError(t, err)
	require.Len(t, bindings, 2)
	assert.Equal(t, "🔵", bindings[0].Emoji)
	assert.Equal(t, int64(401), bindings[1].RoleID)
}

func TestReactionRoleService_CreateBinding_Validation(t *testing.T) {
	ctx := context.Background()
	_, _, _, service := newReactionRoleServiceFixture()

	err := service.CreateBinding(ctx, &models.ReactionRole{Emoji: "🔵", RoleID: 400})
	assert.Error(t, err)

	err = service.CreateBinding(ctx, &models.ReactionRole{MessageID: 30, RoleID: 400})
	assert.Error(t, err)

	err = service.CreateBinding(ctx, &models.ReactionRole{MessageID: 30, Emoji: "🔵"})
	assert.Error(t, err)
}
