package service

import (
	"context"
	"time"

	"curator/events"
	"curator/models"
)

// EventKind distinguishes the inbound interaction kinds the engine handles
type EventKind string

const (
	EventKindAdd    EventKind = "add"
	EventKindRemove EventKind = "remove"
	EventKindPress  EventKind = "press"
)

// Origin tags where a reaction event came from. Cleanup-induced removals
// (exclusive poll enforcement) must never trigger another cleanup pass.
type Origin int

const (
	OriginUser Origin = iota
	OriginCleanup
)

// ReactionEvent is an inbound reaction add/remove on a message
type ReactionEvent struct {
	GuildID   int64
	ChannelID int64
	MessageID int64
	ActorID   int64
	Emoji     string
	Kind      EventKind
	Origin    Origin
}

// ComponentEvent is an inbound button press on a message component
type ComponentEvent struct {
	GuildID   int64
	ChannelID int64
	MessageID int64
	ActorID   int64
	CustomID  string
}

// ChatGateway is the narrow surface of the chat platform the engine needs.
// All counts it reports include the bot's own seed reactions.
type ChatGateway interface {
	// ReactionCount returns the current reaction aggregate for an emoji on a message
	ReactionCount(ctx context.Context, channelID, messageID int64, emoji string) (int, error)

	// RemoveUserReaction removes a specific user's reaction from a message
	RemoveUserReaction(ctx context.Context, channelID, messageID int64, emoji string, userID int64) error

	// GrantRole adds a role to a guild member
	GrantRole(ctx context.Context, guildID, userID, roleID int64) error

	// RevokeRole removes a role from a guild member
	RevokeRole(ctx context.Context, guildID, userID, roleID int64) error

	// MemberHasRole reports whether a guild member currently holds a role
	MemberHasRole(ctx context.Context, guildID, userID, roleID int64) (bool, error)
}

// ReactionRoleRepository defines the interface for reaction role binding data access
type ReactionRoleRepository interface {
	// Create creates a new binding; fails if (message_id, emoji) is already bound
	Create(ctx context.Context, binding *models.ReactionRole) error

	// GetByMessageAndEmoji retrieves the binding for a (message, emoji) pair, nil if none
	GetByMessageAndEmoji(ctx context.Context, messageID int64, emoji string) (*models.ReactionRole, error)

	// GetByMessage returns all bindings on a message
	GetByMessage(ctx context.Context, messageID int64) ([]*models.ReactionRole, error)

	// ExistsForMessage reports whether any binding claims the message
	ExistsForMessage(ctx context.Context, messageID int64) (bool, error)
}

// PollRepository defines the interface for poll data access
type PollRepository interface {
	// CreateWithOptions creates a poll and its options atomically
	CreateWithOptions(ctx context.Context, poll *models.Poll, options []*models.PollOption) error

	// GetDetailByID retrieves a poll with its options, nil if not found
	GetDetailByID(ctx context.Context, id int64) (*models.PollDetail, error)

	// GetDetailByMessageID retrieves a poll with its options by message, nil if not found
	GetDetailByMessageID(ctx context.Context, messageID int64) (*models.PollDetail, error)

	// UpdateOptionVotes overwrites an option's vote snapshot
	UpdateOptionVotes(ctx context.Context, optionID int64, votes int) error

	// Close marks a poll closed; further vote mutation is rejected upstream
	Close(ctx context.Context, pollID int64) error
}

// SuggestionRepository defines the interface for suggestion data access
type SuggestionRepository interface {
	// Create creates a new pending suggestion
	Create(ctx context.Context, suggestion *models.Suggestion) error

	// GetByID retrieves a suggestion by ID, nil if not found
	GetByID(ctx context.Context, id int64) (*models.Suggestion, error)

	// GetByMessageID retrieves a suggestion by message, nil if not found
	GetByMessageID(ctx context.Context, messageID int64) (*models.Suggestion, error)

	// UpdateVoteCounts overwrites the up/downvote snapshots
	UpdateVoteCounts(ctx context.Context, id int64, upvotes, downvotes int) error

	// Resolve performs the guarded terminal transition. It returns true only
	// if the write landed, i.e. the suggestion was still pending.
	Resolve(ctx context.Context, id int64, status models.SuggestionStatus, reviewedBy string, reviewedAt time.Time) (bool, error)

	// ListExpiredPending returns pending suggestions whose expiry has passed
	ListExpiredPending(ctx context.Context, now time.Time) ([]*models.Suggestion, error)
}

// GiveawayRepository defines the interface for giveaway data access
type GiveawayRepository interface {
	// Create creates a new active giveaway
	Create(ctx context.Context, giveaway *models.Giveaway) error

	// GetByID retrieves a giveaway by ID, nil if not found
	GetByID(ctx context.Context, id int64) (*models.Giveaway, error)

	// GetByMessageID retrieves a giveaway by message, nil if not found
	GetByMessageID(ctx context.Context, messageID int64) (*models.Giveaway, error)

	// HasEntry reports whether the participant currently has an entry
	HasEntry(ctx context.Context, giveawayID, participantID int64) (bool, error)

	// AddEntry inserts an entry; inserting an existing pair is a no-op
	AddEntry(ctx context.Context, giveawayID, participantID int64) error

	// RemoveEntry deletes an entry; deleting a missing pair is a no-op
	RemoveEntry(ctx context.Context, giveawayID, participantID int64) error

	// CountEntries returns a fresh participant count
	CountEntries(ctx context.Context, giveawayID int64) (int, error)

	// ListEntries returns all participant IDs for a giveaway
	ListEntries(ctx context.Context, giveawayID int64) ([]int64, error)

	// ListDue returns active giveaways whose end deadline has passed
	ListDue(ctx context.Context, now time.Time) ([]*models.Giveaway, error)

	// MarkEnded performs the guarded active -> ended transition. It returns
	// true only if the write landed, i.e. the giveaway was still active.
	MarkEnded(ctx context.Context, id int64, endedAt time.Time) (bool, error)
}

// GuildSettingsRepository defines the interface for guild settings data access
type GuildSettingsRepository interface {
	// GetOrCreate retrieves guild settings, creating a row seeded with the
	// given default expiry window if the guild has none yet
	GetOrCreate(ctx context.Context, guildID int64, defaultExpiryDays int) (*models.GuildSettings, error)

	// Update updates guild settings
	Update(ctx context.Context, settings *models.GuildSettings) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes pending events
	Commit() error

	// Rollback rolls back the transaction and discards pending events
	Rollback() error

	// ReactionRoleRepository returns the reaction role repository bound to this transaction
	ReactionRoleRepository() ReactionRoleRepository

	// PollRepository returns the poll repository bound to this transaction
	PollRepository() PollRepository

	// SuggestionRepository returns the suggestion repository bound to this transaction
	SuggestionRepository() SuggestionRepository

	// GiveawayRepository returns the giveaway repository bound to this transaction
	GiveawayRepository() GiveawayRepository

	// GuildSettingsRepository returns the guild settings repository bound to this transaction
	GuildSettingsRepository() GuildSettingsRepository

	// EventBus returns the transactional event publisher
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// ReactionRoleService toggles role entitlements bound to (message, emoji) pairs
type ReactionRoleService interface {
	// CreateBinding registers a new reaction role binding
	CreateBinding(ctx context.Context, binding *models.ReactionRole) error

	// ListBindings returns all bindings on a message
	ListBindings(ctx context.Context, messageID int64) ([]*models.ReactionRole, error)

	// OnReaction grants or revokes the bound role. The second return value
	// reports whether a binding claimed the event at all.
	OnReaction(ctx context.Context, ev ReactionEvent) (models.Outcome, bool, error)
}

// PollService reconciles poll vote tallies from reaction aggregates
type PollService interface {
	// CreatePoll registers a poll with its options for a posted message
	CreatePoll(ctx context.Context, poll *models.Poll, options []*models.PollOption) (*models.PollDetail, error)

	// OnReaction recomputes vote snapshots for the poll owning the message.
	// The second return value reports whether a poll claimed the event.
	OnReaction(ctx context.Context, ev ReactionEvent) (models.Outcome, bool, error)

	// ClosePoll marks a poll closed
	ClosePoll(ctx context.Context, pollID int64) error

	// GetPollByID retrieves a poll with options by poll ID
	GetPollByID(ctx context.Context, pollID int64) (*models.PollDetail, error)

	// GetPollByMessageID retrieves a poll with options by message ID
	GetPollByMessageID(ctx context.Context, messageID int64) (*models.PollDetail, error)
}

// SuggestionService drives the suggestion lifecycle state machine
type SuggestionService interface {
	// CreateSuggestion registers a new pending suggestion for a posted message
	CreateSuggestion(ctx context.Context, suggestion *models.Suggestion) error

	// OnReaction recomputes vote counts and evaluates auto-resolution.
	// The second return value reports whether a suggestion claimed the event.
	OnReaction(ctx context.Context, ev ReactionEvent) (models.Outcome, bool, error)

	// ResolveSuggestion performs a manual terminal transition (admin review)
	ResolveSuggestion(ctx context.Context, suggestionID int64, status models.SuggestionStatus, reviewedBy string) (models.Outcome, error)

	// SweepExpired resolves all pending suggestions past their expiry
	// deadline and returns how many transitions landed
	SweepExpired(ctx context.Context, now time.Time) (int, error)

	// GetSuggestionByID retrieves a suggestion by ID
	GetSuggestionByID(ctx context.Context, suggestionID int64) (*models.Suggestion, error)
}

// GiveawayService maintains idempotent giveaway entry membership
type GiveawayService interface {
	// CreateGiveaway registers a new active giveaway for a posted message
	CreateGiveaway(ctx context.Context, giveaway *models.Giveaway) error

	// ToggleEntry joins the actor if absent, removes them if present, and
	// returns the outcome together with a fresh participant count
	ToggleEntry(ctx context.Context, giveawayID, actorID int64) (models.Outcome, int, error)

	// OnButton handles an entry button press. The second return value
	// reports whether a giveaway claimed the event.
	OnButton(ctx context.Context, ev ComponentEvent) (models.Outcome, bool, error)

	// EndDue ends all active giveaways past their deadline, drawing winners,
	// and returns how many transitions landed
	EndDue(ctx context.Context, now time.Time) (int, error)

	// GetGiveawayByMessageID retrieves a giveaway by message ID
	GetGiveawayByMessageID(ctx context.Context, messageID int64) (*models.Giveaway, error)
}

// GuildSettingsService manages per-guild suggestion configuration
type GuildSettingsService interface {
	// GetOrCreateSettings retrieves guild settings or creates default ones
	GetOrCreateSettings(ctx context.Context, guildID int64) (*models.GuildSettings, error)

	// UpdateThresholds updates the auto-resolution thresholds; nil disables a path
	UpdateThresholds(ctx context.Context, guildID int64, approve, deny *int) error

	// UpdateSuggestionChannel updates the designated suggestion channel
	UpdateSuggestionChannel(ctx context.Context, guildID int64, channelID *int64) error
}
