package service

import (
	"context"
	"fmt"

	"curator/events"
	"curator/models"

	log "github.com/sirupsen/logrus"
)

// seedReactions is the number of reactions the bot itself places on each
// option when a poll is posted. Tallies subtract it from the platform
// aggregate. If a moderator removes a seed reaction the derived count would
// be off by one; we clamp at zero and log rather than guess.
const seedReactions = 1

type pollService struct {
	uowFactory UnitOfWorkFactory
	gateway    ChatGateway
}

// NewPollService creates a new poll service
func NewPollService(uowFactory UnitOfWorkFactory, gateway ChatGateway) PollService {
	return &pollService{
		uowFactory: uowFactory,
		gateway:    gateway,
	}
}

// CreatePoll registers a poll with its options for a posted message
func (s *pollService) CreatePoll(ctx context.Context, poll *models.Poll, options []*models.PollOption) (*models.PollDetail, error) {
	if poll.MessageID == 0 {
		return nil, fmt.Errorf("poll requires a message")
	}
	if len(options) < 2 {
		return nil, fmt.Errorf("poll requires at least two options")
	}
	seen := make(map[string]bool, len(options))
	for _, option := range options {
		if seen[option.Emoji] {
			return nil, fmt.Errorf("duplicate option emoji %q", option.Emoji)
		}
		seen[option.Emoji] = true
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.PollRepository().CreateWithOptions(ctx, poll, options); err != nil {
		return nil, fmt.Errorf("failed to create poll: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.PollDetail{Poll: poll, Options: options}, nil
}

// OnReaction reconciles the poll owning the message. Every option's vote
// count is re-derived from the live reaction aggregate rather than adjusted
// by a delta, so replayed and out-of-order events converge to the same
// snapshot.
func (s *pollService) OnReaction(ctx context.Context, ev ReactionEvent) (models.Outcome, bool, error) {
	if ev.Kind == EventKindPress {
		return models.Skipped("polls do not own button presses"), false, nil
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return models.Outcome{}, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	detail, err := uow.PollRepository().GetDetailByMessageID(ctx, ev.MessageID)
	if err != nil {
		return models.Outcome{}, false, fmt.Errorf("failed to look up poll: %w", err)
	}
	if detail == nil {
		return models.Skipped("no poll for message"), false, nil
	}

	if detail.Poll.Closed {
		return models.Skipped("poll closed"), true, nil
	}

	option := detail.OptionByEmoji(ev.Emoji)
	if option == nil {
		return models.Skipped("emoji is not a poll option"), true, nil
	}

	// Exclusive polls allow one choice per actor: a fresh add clears the
	// actor's reactions on every other option first. Cleanup is a single
	// terminal pass; reconciliation triggered by it is tagged OriginCleanup
	// and never starts another pass.
	if detail.Poll.Exclusive && ev.Kind == EventKindAdd && ev.Origin == OriginUser {
		s.clearOtherOptions(ctx, detail, option, ev.ActorID)
	}

	changed := s.reconcileOptions(ctx, uow, detail)

	uow.EventBus().Publish(events.PollTallyChangedEvent{
		PollID:    detail.Poll.ID,
		GuildID:   detail.Poll.GuildID,
		ChannelID: detail.Poll.ChannelID,
		MessageID: detail.Poll.MessageID,
	})

	if err := uow.Commit(); err != nil {
		return models.Outcome{}, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if changed == 0 {
		return models.Skipped("tallies already current"), true, nil
	}
	return models.Applied(fmt.Sprintf("reconciled %d options", changed)), true, nil
}

// clearOtherOptions removes the actor's reaction from every option except
// the one they just chose. The platform reports removing an absent reaction
// as an error; that is the common case and is swallowed.
func (s *pollService) clearOtherOptions(ctx context.Context, detail *models.PollDetail, chosen *models.PollOption, actorID int64) {
	for _, option := range detail.Options {
		if option.ID == chosen.ID {
			continue
		}
		err := s.gateway.RemoveUserReaction(ctx, detail.Poll.ChannelID, detail.Poll.MessageID, option.Emoji, actorID)
		if err != nil {
			log.WithFields(log.Fields{
				"pollID":  detail.Poll.ID,
				"emoji":   option.Emoji,
				"actorID": actorID,
			}).WithError(err).Debug("Could not remove reaction during exclusivity cleanup")
		}
	}
}

// reconcileOptions overwrites each option's vote snapshot with the platform
// aggregate minus the bot seed. Options whose aggregate cannot be fetched
// keep their previous snapshot; a later event re-syncs them.
func (s *pollService) reconcileOptions(ctx context.Context, uow UnitOfWork, detail *models.PollDetail) int {
	changed := 0
	for _, option := range detail.Options {
		raw, err := s.gateway.ReactionCount(ctx, detail.Poll.ChannelID, detail.Poll.MessageID, option.Emoji)
		if err != nil {
			log.WithFields(log.Fields{
				"pollID": detail.Poll.ID,
				"emoji":  option.Emoji,
			}).WithError(err).Warn("Could not fetch reaction aggregate, keeping previous tally")
			continue
		}

		votes := raw - seedReactions
		if votes < 0 {
			// Seed reaction is gone; counts are off by one until it is restored.
			log.WithFields(log.Fields{
				"pollID": detail.Poll.ID,
				"emoji":  option.Emoji,
			}).Warn("Reaction aggregate below seed count, clamping tally to zero")
			votes = 0
		}

		if votes == option.Votes {
			continue
		}

		if err := uow.PollRepository().UpdateOptionVotes(ctx, option.ID, votes); err != nil {
			log.WithFields(log.Fields{
				"pollID":   detail.Poll.ID,
				"optionID": option.ID,
			}).WithError(err).Error("Could not persist vote snapshot")
			continue
		}
		option.Votes = votes
		changed++
	}
	return changed
}

// ClosePoll marks a poll closed; subsequent reaction events are skipped
func (s *pollService) ClosePoll(ctx context.Context, pollID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.PollRepository().Close(ctx, pollID); err != nil {
		return fmt.Errorf("failed to close poll: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetPollByID retrieves a poll with options by poll ID
func (s *pollService) GetPollByID(ctx context.Context, pollID int64) (*models.PollDetail, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	detail, err := uow.PollRepository().GetDetailByID(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return detail, nil
}

// GetPollByMessageID retrieves a poll with options by message ID
func (s *pollService) GetPollByMessageID(ctx context.Context, messageID int64) (*models.PollDetail, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	detail, err := uow.PollRepository().GetDetailByMessageID(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return detail, nil
}
