package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"curator/events"
	"curator/models"

	log "github.com/sirupsen/logrus"
)

type giveawayService struct {
	uowFactory UnitOfWorkFactory
}

// NewGiveawayService creates a new giveaway service
func NewGiveawayService(uowFactory UnitOfWorkFactory) GiveawayService {
	return &giveawayService{
		uowFactory: uowFactory,
	}
}

// CreateGiveaway registers a new active giveaway for a posted message
func (s *giveawayService) CreateGiveaway(ctx context.Context, giveaway *models.Giveaway) error {
	if giveaway.MessageID == 0 {
		return fmt.Errorf("giveaway requires a message")
	}
	if giveaway.Prize == "" {
		return fmt.Errorf("giveaway prize cannot be empty")
	}
	if giveaway.EndsAt.IsZero() {
		return fmt.Errorf("giveaway requires an end time")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.GiveawayRepository().Create(ctx, giveaway); err != nil {
		return fmt.Errorf("failed to create giveaway: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ToggleEntry joins the actor if absent and removes them if present. The
// returned participant count always comes from a fresh COUNT query, never
// an in-memory counter, so concurrent toggles cannot drift the rendering.
func (s *giveawayService) ToggleEntry(ctx context.Context, giveawayID, actorID int64) (models.Outcome, int, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return models.Outcome{}, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	giveaway, err := uow.GiveawayRepository().GetByID(ctx, giveawayID)
	if err != nil {
		return models.Outcome{}, 0, fmt.Errorf("failed to get giveaway: %w", err)
	}
	if giveaway == nil {
		return models.Outcome{}, 0, fmt.Errorf("giveaway %d not found", giveawayID)
	}

	outcome, entries, err := s.toggle(ctx, uow, giveaway, actorID)
	if err != nil {
		return models.Outcome{}, 0, err
	}

	if err := uow.Commit(); err != nil {
		return models.Outcome{}, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return outcome, entries, nil
}

// OnButton handles an entry button press for the giveaway owning the message
func (s *giveawayService) OnButton(ctx context.Context, ev ComponentEvent) (models.Outcome, bool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return models.Outcome{}, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	giveaway, err := uow.GiveawayRepository().GetByMessageID(ctx, ev.MessageID)
	if err != nil {
		return models.Outcome{}, false, fmt.Errorf("failed to look up giveaway: %w", err)
	}
	if giveaway == nil {
		return models.Skipped("no giveaway for message"), false, nil
	}

	outcome, _, err := s.toggle(ctx, uow, giveaway, ev.ActorID)
	if err != nil {
		return models.Outcome{}, false, err
	}

	if err := uow.Commit(); err != nil {
		return models.Outcome{}, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return outcome, true, nil
}

func (s *giveawayService) toggle(ctx context.Context, uow UnitOfWork, giveaway *models.Giveaway, actorID int64) (models.Outcome, int, error) {
	if !giveaway.IsActive() {
		return models.Rejected("giveaway already finished"), 0, nil
	}

	repo := uow.GiveawayRepository()

	entered, err := repo.HasEntry(ctx, giveaway.ID, actorID)
	if err != nil {
		return models.Outcome{}, 0, fmt.Errorf("failed to check entry: %w", err)
	}

	if entered {
		if err := repo.RemoveEntry(ctx, giveaway.ID, actorID); err != nil {
			return models.Outcome{}, 0, fmt.Errorf("failed to remove entry: %w", err)
		}
	} else {
		if err := repo.AddEntry(ctx, giveaway.ID, actorID); err != nil {
			return models.Outcome{}, 0, fmt.Errorf("failed to add entry: %w", err)
		}
	}

	entries, err := repo.CountEntries(ctx, giveaway.ID)
	if err != nil {
		return models.Outcome{}, 0, fmt.Errorf("failed to count entries: %w", err)
	}

	uow.EventBus().Publish(events.GiveawayEntriesChangedEvent{
		GiveawayID: giveaway.ID,
		GuildID:    giveaway.GuildID,
		ChannelID:  giveaway.ChannelID,
		MessageID:  giveaway.MessageID,
		Entries:    entries,
	})

	if entered {
		return models.Applied("entry removed"), entries, nil
	}
	return models.Applied("entry added"), entries, nil
}

// EndDue ends all active giveaways past their deadline and draws winners.
// The active -> ended transition is guarded, so overlapping sweeps or a
// sweep racing a manual end cannot draw winners twice.
func (s *giveawayService) EndDue(ctx context.Context, now time.Time) (int, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	due, err := uow.GiveawayRepository().ListDue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list due giveaways: %w", err)
	}

	ended := 0
	for _, giveaway := range due {
		won, err := uow.GiveawayRepository().MarkEnded(ctx, giveaway.ID, now)
		if err != nil {
			return ended, fmt.Errorf("failed to end giveaway %d: %w", giveaway.ID, err)
		}
		if !won {
			continue
		}

		participants, err := uow.GiveawayRepository().ListEntries(ctx, giveaway.ID)
		if err != nil {
			return ended, fmt.Errorf("failed to list entries for giveaway %d: %w", giveaway.ID, err)
		}

		winners := drawWinners(participants, giveaway.WinnersCount)
		uow.EventBus().Publish(events.GiveawayEndedEvent{
			GiveawayID: giveaway.ID,
			GuildID:    giveaway.GuildID,
			ChannelID:  giveaway.ChannelID,
			MessageID:  giveaway.MessageID,
			Entries:    len(participants),
			WinnerIDs:  winners,
		})
		ended++
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if ended > 0 {
		log.WithField("count", ended).Info("Due giveaways ended by sweep")
	}
	return ended, nil
}

// drawWinners picks up to count distinct participants uniformly at random
func drawWinners(participants []int64, count int) []int64 {
	if len(participants) == 0 || count <= 0 {
		return nil
	}
	if count > len(participants) {
		count = len(participants)
	}

	winners := make([]int64, 0, count)
	for _, idx := range rand.Perm(len(participants))[:count] {
		winners = append(winners, participants[idx])
	}
	return winners
}

// GetGiveawayByMessageID retrieves a giveaway by message ID
func (s *giveawayService) GetGiveawayByMessageID(ctx context.Context, messageID int64) (*models.Giveaway, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	giveaway, err := uow.GiveawayRepository().GetByMessageID(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get giveaway: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return giveaway, nil
}
