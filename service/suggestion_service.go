package service

import (
	"context"
	"fmt"
	"time"

	"curator/events"
	"curator/models"

	log "github.com/sirupsen/logrus"
)

// Vote emojis the bot seeds on every suggestion message
const (
	UpvoteEmoji   = "👍"
	DownvoteEmoji = "👎"
)

type suggestionService struct {
	uowFactory        UnitOfWorkFactory
	gateway           ChatGateway
	defaultExpiryDays int
}

// NewSuggestionService creates a new suggestion service. New guilds start
// with defaultExpiryDays as their suggestion expiry window.
func NewSuggestionService(uowFactory UnitOfWorkFactory, gateway ChatGateway, defaultExpiryDays int) SuggestionService {
	return &suggestionService{
		uowFactory:        uowFactory,
		gateway:           gateway,
		defaultExpiryDays: defaultExpiryDays,
	}
}

// CreateSuggestion registers a new pending suggestion for a posted message
func (s *suggestionService) CreateSuggestion(ctx context.Context, suggestion *models.Suggestion) error {
	if suggestion.MessageID == 0 {
		return fmt.Errorf("suggestion requires a message")
	}
	if suggestion.Content == "" {
		return fmt.Errorf("suggestion content cannot be empty")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if suggestion.ExpiresAt.IsZero() {
		settings, err := uow.GuildSettingsRepository().GetOrCreate(ctx, suggestion.GuildID, s.defaultExpiryDays)
		if err != nil {
			return fmt.Errorf("failed to get guild settings: %w", err)
		}
		suggestion.ExpiresAt = time.Now().Add(time.Duration(settings.SuggestionExpiryDays) * 24 * time.Hour)
	}

	if err := uow.SuggestionRepository().Create(ctx, suggestion); err != nil {
		return fmt.Errorf("failed to create suggestion: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// OnReaction recomputes the suggestion's vote counts from the reaction
// aggregates, persists the snapshot and evaluates auto-resolution against
// the guild's thresholds. Resolution goes through the guarded status write,
// so a vote crossing the threshold and the expiry sweep can race safely:
// exactly one of them lands.
func (s *suggestionService) OnReaction(ctx context.Context, ev ReactionEvent) (models.Outcome, bool, error) {
	if ev.Kind == EventKindPress {
		return models.Skipped("suggestions do not own button presses"), false, nil
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return models.Outcome{}, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	suggestion, err := uow.SuggestionRepository().GetByMessageID(ctx, ev.MessageID)
	if err != nil {
		return models.Outcome{}, false, fmt.Errorf("failed to look up suggestion: %w", err)
	}
	if suggestion == nil {
		return models.Skipped("no suggestion for message"), false, nil
	}

	if suggestion.IsTerminal() {
		return models.Rejected("suggestion already finished"), true, nil
	}

	if ev.Emoji != UpvoteEmoji && ev.Emoji != DownvoteEmoji {
		return models.Skipped("emoji does not affect votes"), true, nil
	}

	upvotes := s.countVotes(ctx, suggestion, UpvoteEmoji, suggestion.Upvotes)
	downvotes := s.countVotes(ctx, suggestion, DownvoteEmoji, suggestion.Downvotes)

	if err := uow.SuggestionRepository().UpdateVoteCounts(ctx, suggestion.ID, upvotes, downvotes); err != nil {
		return models.Outcome{}, false, fmt.Errorf("failed to persist vote counts: %w", err)
	}
	suggestion.Upvotes = upvotes
	suggestion.Downvotes = downvotes

	settings, err := uow.GuildSettingsRepository().GetOrCreate(ctx, suggestion.GuildID, s.defaultExpiryDays)
	if err != nil {
		return models.Outcome{}, false, fmt.Errorf("failed to get guild settings: %w", err)
	}

	status := s.statusFromThresholds(suggestion, settings)
	if status == models.SuggestionStatusPending {
		uow.EventBus().Publish(events.SuggestionVotesChangedEvent{
			SuggestionID: suggestion.ID,
			GuildID:      suggestion.GuildID,
			ChannelID:    suggestion.ChannelID,
			MessageID:    suggestion.MessageID,
			Upvotes:      upvotes,
			Downvotes:    downvotes,
		})
		if err := uow.Commit(); err != nil {
			return models.Outcome{}, false, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return models.Applied("vote counts updated"), true, nil
	}

	won, err := uow.SuggestionRepository().Resolve(ctx, suggestion.ID, status, models.SystemReviewer, time.Now())
	if err != nil {
		return models.Outcome{}, false, fmt.Errorf("failed to resolve suggestion: %w", err)
	}
	if won {
		suggestion.Status = status
		uow.EventBus().Publish(events.SuggestionResolvedEvent{
			SuggestionID:  suggestion.ID,
			GuildID:       suggestion.GuildID,
			ChannelID:     suggestion.ChannelID,
			MessageID:     suggestion.MessageID,
			Status:        status,
			DecidingVotes: suggestion.DecidingVotes(),
		})
	}

	if err := uow.Commit(); err != nil {
		return models.Outcome{}, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if !won {
		// Another resolution landed first; nothing further to do.
		return models.Skipped("suggestion already resolved"), true, nil
	}
	return models.Applied(fmt.Sprintf("suggestion %s", status)), true, nil
}

// countVotes derives one vote count from the reaction aggregate minus the
// bot seed. On aggregate fetch failure the previous snapshot is kept.
func (s *suggestionService) countVotes(ctx context.Context, suggestion *models.Suggestion, emoji string, previous int) int {
	raw, err := s.gateway.ReactionCount(ctx, suggestion.ChannelID, suggestion.MessageID, emoji)
	if err != nil {
		log.WithFields(log.Fields{
			"suggestionID": suggestion.ID,
			"emoji":        emoji,
		}).WithError(err).Warn("Could not fetch reaction aggregate, keeping previous count")
		return previous
	}

	votes := raw - seedReactions
	if votes < 0 {
		// Seed reaction is gone; counts are off by one until it is restored.
		log.WithFields(log.Fields{
			"suggestionID": suggestion.ID,
			"emoji":        emoji,
		}).Warn("Reaction aggregate below seed count, clamping to zero")
		votes = 0
	}
	return votes
}

// statusFromThresholds returns the terminal status the current counts call
// for, or pending if no configured threshold is crossed. Approval is
// evaluated first, matching the documented tie-break.
func (s *suggestionService) statusFromThresholds(suggestion *models.Suggestion, settings *models.GuildSettings) models.SuggestionStatus {
	if settings.ApproveEnabled() && suggestion.Upvotes >= *settings.ApproveThreshold {
		return models.SuggestionStatusApproved
	}
	if settings.DenyEnabled() && suggestion.Downvotes >= *settings.DenyThreshold {
		return models.SuggestionStatusDenied
	}
	return models.SuggestionStatusPending
}

// ResolveSuggestion performs a manual terminal transition (admin review)
func (s *suggestionService) ResolveSuggestion(ctx context.Context, suggestionID int64, status models.SuggestionStatus, reviewedBy string) (models.Outcome, error) {
	if status == models.SuggestionStatusPending {
		return models.Outcome{}, fmt.Errorf("cannot resolve to pending")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return models.Outcome{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	suggestion, err := uow.SuggestionRepository().GetByID(ctx, suggestionID)
	if err != nil {
		return models.Outcome{}, fmt.Errorf("failed to get suggestion: %w", err)
	}
	if suggestion == nil {
		return models.Outcome{}, fmt.Errorf("suggestion %d not found", suggestionID)
	}

	won, err := uow.SuggestionRepository().Resolve(ctx, suggestionID, status, reviewedBy, time.Now())
	if err != nil {
		return models.Outcome{}, fmt.Errorf("failed to resolve suggestion: %w", err)
	}
	if !won {
		return models.Rejected("suggestion already finished"), nil
	}

	suggestion.Status = status
	uow.EventBus().Publish(events.SuggestionResolvedEvent{
		SuggestionID:  suggestion.ID,
		GuildID:       suggestion.GuildID,
		ChannelID:     suggestion.ChannelID,
		MessageID:     suggestion.MessageID,
		Status:        status,
		DecidingVotes: suggestion.DecidingVotes(),
	})

	if err := uow.Commit(); err != nil {
		return models.Outcome{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return models.Applied(fmt.Sprintf("suggestion %s", status)), nil
}

// SweepExpired resolves all pending suggestions past their expiry deadline.
// Each transition goes through the same guarded write as reaction-triggered
// resolution, so running concurrently with vote handling is safe: whichever
// write lands first wins and the loser backs off silently.
func (s *suggestionService) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	expired, err := uow.SuggestionRepository().ListExpiredPending(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired suggestions: %w", err)
	}

	resolved := 0
	for _, suggestion := range expired {
		won, err := uow.SuggestionRepository().Resolve(ctx, suggestion.ID, models.SuggestionStatusExpired, models.SystemReviewer, now)
		if err != nil {
			return resolved, fmt.Errorf("failed to expire suggestion %d: %w", suggestion.ID, err)
		}
		if !won {
			continue
		}

		suggestion.Status = models.SuggestionStatusExpired
		uow.EventBus().Publish(events.SuggestionResolvedEvent{
			SuggestionID:  suggestion.ID,
			GuildID:       suggestion.GuildID,
			ChannelID:     suggestion.ChannelID,
			MessageID:     suggestion.MessageID,
			Status:        models.SuggestionStatusExpired,
			DecidingVotes: suggestion.DecidingVotes(),
		})
		resolved++
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if resolved > 0 {
		log.WithField("count", resolved).Info("Expired suggestions resolved by sweep")
	}
	return resolved, nil
}

// GetSuggestionByID retrieves a suggestion by ID
func (s *suggestionService) GetSuggestionByID(ctx context.Context, suggestionID int64) (*models.Suggestion, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	suggestion, err := uow.SuggestionRepository().GetByID(ctx, suggestionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get suggestion: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return suggestion, nil
}
