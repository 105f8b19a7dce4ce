package service

import (
	"context"
	"time"

	"curator/events"
	"curator/models"

	"github.com/stretchr/testify/mock"
)

// MockReactionRoleRepository is a mock implementation of ReactionRoleRepository
type MockReactionRoleRepository struct {
	mock.Mock
}

func (m *MockReactionRoleRepository) Create(ctx context.Context, binding *models.ReactionRole) error {
	args := m.Called(ctx, binding)
	return args.Error(0)
}

func (m *MockReactionRoleRepository) GetByMessageAndEmoji(ctx context.Context, messageID int64, emoji string) (*models.ReactionRole, error) {
	args := m.Called(ctx, messageID, emoji)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReactionRole), args.Error(1)
}

func (m *MockReactionRoleRepository) GetByMessage(ctx context.Context, messageID int64) ([]*models.ReactionRole, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ReactionRole), args.Error(1)
}

func (m *MockReactionRoleRepository) ExistsForMessage(ctx context.Context, messageID int64) (bool, error) {
	args := m.Called(ctx, messageID)
	return args.Bool(0), args.Error(1)
}

// MockPollRepository is a mock implementation of PollRepository
type MockPollRepository struct {
	mock.Mock
}

func (m *MockPollRepository) CreateWithOptions(ctx context.Context, poll *models.Poll, options []*models.PollOption) error {
	args := m.Called(ctx, poll, options)
	return args.Error(0)
}

func (m *MockPollRepository) GetDetailByID(ctx context.Context, id int64) (*models.PollDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PollDetail), args.Error(1)
}

func (m *MockPollRepository) GetDetailByMessageID(ctx context.Context, messageID int64) (*models.PollDetail, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PollDetail), args.Error(1)
}

func (m *MockPollRepository) UpdateOptionVotes(ctx context.Context, optionID int64, votes int) error {
	args := m.Called(ctx, optionID, votes)
	return args.Error(0)
}

func (m *MockPollRepository) Close(ctx context.Context, pollID int64) error {
	args := m.Called(ctx, pollID)
	return args.Error(0)
}

// MockSuggestionRepository is a mock implementation of SuggestionRepository
type MockSuggestionRepository struct {
	mock.Mock
}

func (m *MockSuggestionRepository) Create(ctx context.Context, suggestion *models.Suggestion) error {
	args := m.Called(ctx, suggestion)
	return args.Error(0)
}

func (m *MockSuggestionRepository) GetByID(ctx context.Context, id int64) (*models.Suggestion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Suggestion), args.Error(1)
}

func (m *MockSuggestionRepository) GetByMessageID(ctx context.Context, messageID int64) (*models.Suggestion, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Suggestion), args.Error(1)
}

func (m *MockSuggestionRepository) UpdateVoteCounts(ctx context.Context, id int64, upvotes, downvotes int) error {
	args := m.Called(ctx, id, upvotes, downvotes)
	return args.Error(0)
}

func (m *MockSuggestionRepository) Resolve(ctx context.Context, id int64, status models.SuggestionStatus, reviewedBy string, reviewedAt time.Time) (bool, error) {
	args := m.Called(ctx, id, status, reviewedBy, reviewedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockSuggestionRepository) ListExpiredPending(ctx context.Context, now time.Time) ([]*models.Suggestion, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Suggestion), args.Error(1)
}

// MockGiveawayRepository is a mock implementation of GiveawayRepository
type MockGiveawayRepository struct {
	mock.Mock
}

func (m *MockGiveawayRepository) Create(ctx context.Context, giveaway *models.Giveaway) error {
	args := m.Called(ctx, giveaway)
	return args.Error(0)
}

func (m *MockGiveawayRepository) GetByID(ctx context.Context, id int64) (*models.Giveaway, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Giveaway), args.Error(1)
}

func (m *MockGiveawayRepository) GetByMessageID(ctx context.Context, messageID int64) (*models.Giveaway, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Giveaway), args.Error(1)
}

func (m *MockGiveawayRepository) HasEntry(ctx context.Context, giveawayID, participantID int64) (bool, error) {
	args := m.Called(ctx, giveawayID, participantID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGiveawayRepository) AddEntry(ctx context.Context, giveawayID, participantID int64) error {
	args := m.Called(ctx, giveawayID, participantID)
	return args.Error(0)
}

func (m *MockGiveawayRepository) RemoveEntry(ctx context.Context, giveawayID, participantID int64) error {
	args := m.Called(ctx, giveawayID, participantID)
	return args.Error(0)
}

func (m *MockGiveawayRepository) CountEntries(ctx context.Context, giveawayID int64) (int, error) {
	args := m.Called(ctx, giveawayID)
	return args.Int(0), args.Error(1)
}

func (m *MockGiveawayRepository) ListEntries(ctx context.Context, giveawayID int64) ([]int64, error) {
	args := m.Called(ctx, giveawayID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockGiveawayRepository) ListDue(ctx context.Context, now time.Time) ([]*models.Giveaway, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Giveaway), args.Error(1)
}

func (m *MockGiveawayRepository) MarkEnded(ctx context.Context, id int64, endedAt time.Time) (bool, error) {
	args := m.Called(ctx, id, endedAt)
	return args.Bool(0), args.Error(1)
}

// MockGuildSettingsRepository is a mock implementation of GuildSettingsRepository
type MockGuildSettingsRepository struct {
	mock.Mock
}

func (m *MockGuildSettingsRepository) GetOrCreate(ctx context.Context, guildID int64, defaultExpiryDays int) (*models.GuildSettings, error) {
	args := m.Called(ctx, guildID, defaultExpiryDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuildSettings), args.Error(1)
}

func (m *MockGuildSettingsRepository) Update(ctx context.Context, settings *models.GuildSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// MockChatGateway is a mock implementation of ChatGateway
type MockChatGateway struct {
	mock.Mock
}

func (m *MockChatGateway) ReactionCount(ctx context.Context, channelID, messageID int64, emoji string) (int, error) {
	args := m.Called(ctx, channelID, messageID, emoji)
	return args.Int(0), args.Error(1)
}

func (m *MockChatGateway) RemoveUserReaction(ctx context.Context, channelID, messageID int64, emoji string, userID int64) error {
	args := m.Called(ctx, channelID, messageID, emoji, userID)
	return args.Error(0)
}

func (m *MockChatGateway) GrantRole(ctx context.Context, guildID, userID, roleID int64) error {
	args := m.Called(ctx, guildID, userID, roleID)
	return args.Error(0)
}

func (m *MockChatGateway) RevokeRole(ctx context.Context, guildID, userID, roleID int64) error {
	args := m.Called(ctx, guildID, userID, roleID)
	return args.Error(0)
}

func (m *MockChatGateway) MemberHasRole(ctx context.Context, guildID, userID, roleID int64) (bool, error) {
	args := m.Called(ctx, guildID, userID, roleID)
	return args.Bool(0), args.Error(1)
}

// MockEventPublisher records events published during a unit of work
type MockEventPublisher struct {
	Events []events.Event
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Events = append(m.Events, event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	reactionRoleRepo ReactionRoleRepository
	pollRepo         PollRepository
	suggestionRepo   SuggestionRepository
	giveawayRepo     GiveawayRepository
	settingsRepo     GuildSettingsRepository
	publisher        *MockEventPublisher
}

// SetRepositories wires the mock repositories returned by the accessors
func (m *MockUnitOfWork) SetRepositories(
	reactionRoleRepo ReactionRoleRepository,
	pollRepo PollRepository,
	suggestionRepo SuggestionRepository,
	giveawayRepo GiveawayRepository,
	settingsRepo GuildSettingsRepository,
) {
	m.reactionRoleRepo = reactionRoleRepo
	m.pollRepo = pollRepo
	m.suggestionRepo = suggestionRepo
	m.giveawayRepo = giveawayRepo
	m.settingsRepo = settingsRepo
	m.publisher = &MockEventPublisher{}
}

// PublishedEvents returns the events published through this unit of work
func (m *MockUnitOfWork) PublishedEvents() []events.Event {
	if m.publisher == nil {
		return nil
	}
	return m.publisher.Events
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) ReactionRoleRepository() ReactionRoleRepository {
	return m.reactionRoleRepo
}

func (m *MockUnitOfWork) PollRepository() PollRepository {
	return m.pollRepo
}

func (m *MockUnitOfWork) SuggestionRepository() SuggestionRepository {
	return m.suggestionRepo
}

func (m *MockUnitOfWork) GiveawayRepository() GiveawayRepository {
	return m.giveawayRepo
}

func (m *MockUnitOfWork) GuildSettingsRepository() GuildSettingsRepository {
	return m.settingsRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	if m.publisher == nil {
		m.publisher = &MockEventPublisher{}
	}
	return m.publisher
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
