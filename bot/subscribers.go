package bot

import (
	"context"

	"curator/bot/common"
	"curator/events"

	log "github.com/sirupsen/logrus"
)

// subscribeRenderers wires the event bus to message re-renders. Rendering
// is strictly downstream of reconciliation: every handler re-reads current
// state and redraws the whole card. A deleted or otherwise unreachable
// message is logged and dropped, never retried.
func (b *Bot) subscribeRenderers() {
	b.eventBus.Subscribe(events.EventTypePollTallyChanged, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.PollTallyChangedEvent); ok {
			b.renderPoll(ctx, e.ChannelID, e.MessageID)
		}
	})

	b.eventBus.Subscribe(events.EventTypeSuggestionVotesChanged, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.SuggestionVotesChangedEvent); ok {
			b.renderSuggestion(ctx, e.SuggestionID, e.ChannelID, e.MessageID)
		}
	})

	b.eventBus.Subscribe(events.EventTypeSuggestionResolved, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.SuggestionResolvedEvent); ok {
			b.renderSuggestion(ctx, e.SuggestionID, e.ChannelID, e.MessageID)
		}
	})

	b.eventBus.Subscribe(events.EventTypeGiveawayEntriesChanged, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.GiveawayEntriesChangedEvent); ok {
			b.renderGiveaway(ctx, e.MessageID, e.Entries)
		}
	})

	b.eventBus.Subscribe(events.EventTypeGiveawayEnded, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.GiveawayEndedEvent); ok {
			b.announceGiveawayEnd(ctx, e)
		}
	})
}

func (b *Bot) renderPoll(ctx context.Context, channelID, messageID int64) {
	detail, err := b.pollService.GetPollByMessageID(ctx, messageID)
	if err != nil || detail == nil {
		log.WithField("messageID", messageID).WithError(err).Warn("Could not load poll for re-render")
		return
	}

	err = common.EditMessageEmbed(b.session, formatSnowflake(channelID), formatSnowflake(messageID), BuildPollEmbed(detail), nil)
	if err != nil {
		log.WithField("messageID", messageID).WithError(err).Debug("Poll card re-render failed")
	}
}

func (b *Bot) renderSuggestion(ctx context.Context, suggestionID, channelID, messageID int64) {
	suggestion, err := b.suggestionService.GetSuggestionByID(ctx, suggestionID)
	if err != nil || suggestion == nil {
		log.WithField("suggestionID", suggestionID).WithError(err).Warn("Could not load suggestion for re-render")
		return
	}

	err = common.EditMessageEmbed(b.session, formatSnowflake(channelID), formatSnowflake(messageID), BuildSuggestionEmbed(suggestion), nil)
	if err != nil {
		log.WithField("suggestionID", suggestionID).WithError(err).Debug("Suggestion card re-render failed")
	}
}

func (b *Bot) renderGiveaway(ctx context.Context, messageID int64, entries int) {
	giveaway, err := b.giveawayService.GetGiveawayByMessageID(ctx, messageID)
	if err != nil || giveaway == nil {
		log.WithField("messageID", messageID).WithError(err).Warn("Could not load giveaway for re-render")
		return
	}

	err = common.EditMessageEmbed(b.session, formatSnowflake(giveaway.ChannelID), formatSnowflake(messageID), BuildGiveawayEmbed(giveaway, entries), BuildGiveawayComponents(giveaway))
	if err != nil {
		log.WithField("messageID", messageID).WithError(err).Debug("Giveaway card re-render failed")
	}
}

// announceGiveawayEnd redraws the ended card and posts the winner
// announcement into the giveaway's channel
func (b *Bot) announceGiveawayEnd(ctx context.Context, e events.GiveawayEndedEvent) {
	giveaway, err := b.giveawayService.GetGiveawayByMessageID(ctx, e.MessageID)
	if err != nil || giveaway == nil {
		log.WithField("giveawayID", e.GiveawayID).WithError(err).Warn("Could not load ended giveaway")
		return
	}

	channel := formatSnowflake(e.ChannelID)

	err = common.EditMessageEmbed(b.session, channel, formatSnowflake(e.MessageID), BuildGiveawayEmbed(giveaway, e.Entries), BuildGiveawayComponents(giveaway))
	if err != nil {
		log.WithField("giveawayID", e.GiveawayID).WithError(err).Debug("Ended giveaway re-render failed")
	}

	if _, err := b.session.ChannelMessageSend(channel, FormatWinnerAnnouncement(giveaway, e.WinnerIDs)); err != nil {
		log.WithField("giveawayID", e.GiveawayID).WithError(err).Warn("Could not announce giveaway winners")
	}
}
