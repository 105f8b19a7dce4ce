package bot

import (
	"context"

	"curator/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleReactionAdd feeds reaction additions into the dispatcher. The bot's
// own reactions are the seeds and never count as events.
func (b *Bot) handleReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if s.State.User != nil && r.UserID == s.State.User.ID {
		return
	}
	b.dispatchReaction(r.MessageReaction, service.EventKindAdd)
}

// handleReactionRemove feeds reaction removals into the dispatcher
func (b *Bot) handleReactionRemove(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	if s.State.User != nil && r.UserID == s.State.User.ID {
		return
	}
	b.dispatchReaction(r.MessageReaction, service.EventKindRemove)
}

func (b *Bot) dispatchReaction(r *discordgo.MessageReaction, kind service.EventKind) {
	ev, err := reactionEventFrom(r, kind)
	if err != nil {
		log.WithError(err).Warn("Dropping malformed reaction event")
		return
	}

	outcome, err := b.dispatcher.DispatchReaction(context.Background(), ev)
	if err != nil {
		log.WithFields(log.Fields{
			"messageID": ev.MessageID,
			"emoji":     ev.Emoji,
			"kind":      kind,
		}).WithError(err).Error("Reaction dispatch failed")
		return
	}

	log.WithFields(log.Fields{
		"messageID": ev.MessageID,
		"emoji":     ev.Emoji,
		"kind":      kind,
		"outcome":   outcome.Status,
	}).Debug("Reaction handled")
}

// handleComponentInteraction feeds button presses into the dispatcher and
// answers the actor with the outcome
func (b *Bot) handleComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	ev, err := componentEventFrom(i)
	if err != nil {
		log.WithError(err).Warn("Dropping malformed component event")
		return
	}

	outcome, err := b.dispatcher.DispatchComponent(context.Background(), ev)
	if err != nil {
		log.WithFields(log.Fields{
			"messageID": ev.MessageID,
			"customID":  ev.CustomID,
		}).WithError(err).Error("Component dispatch failed")
		b.respondWithError(s, i, "Something went wrong, try again")
		return
	}

	b.respondEphemeral(s, i, componentReply(outcome.Detail))
}

func componentReply(detail string) string {
	switch detail {
	case "entry added":
		return "🎉 You are in! Press again to withdraw."
	case "entry removed":
		return "Your entry has been withdrawn."
	case "giveaway already finished":
		return "This giveaway has already ended."
	default:
		return "Nothing to do."
	}
}

func reactionEventFrom(r *discordgo.MessageReaction, kind service.EventKind) (service.ReactionEvent, error) {
	guildID, err := parseSnowflake(r.GuildID)
	if err != nil {
		return service.ReactionEvent{}, err
	}
	channelID, err := parseSnowflake(r.ChannelID)
	if err != nil {
		return service.ReactionEvent{}, err
	}
	messageID, err := parseSnowflake(r.MessageID)
	if err != nil {
		return service.ReactionEvent{}, err
	}
	actorID, err := parseSnowflake(r.UserID)
	if err != nil {
		return service.ReactionEvent{}, err
	}

	return service.ReactionEvent{
		GuildID:   guildID,
		ChannelID: channelID,
		MessageID: messageID,
		ActorID:   actorID,
		Emoji:     r.Emoji.APIName(),
		Kind:      kind,
		Origin:    service.OriginUser,
	}, nil
}

func componentEventFrom(i *discordgo.InteractionCreate) (service.ComponentEvent, error) {
	guildID, err := parseSnowflake(i.GuildID)
	if err != nil {
		return service.ComponentEvent{}, err
	}
	channelID, err := parseSnowflake(i.ChannelID)
	if err != nil {
		return service.ComponentEvent{}, err
	}
	messageID, err := parseSnowflake(i.Message.ID)
	if err != nil {
		return service.ComponentEvent{}, err
	}
	actorID, err := interactionActorID(i)
	if err != nil {
		return service.ComponentEvent{}, err
	}

	return service.ComponentEvent{
		GuildID:   guildID,
		ChannelID: channelID,
		MessageID: messageID,
		ActorID:   actorID,
		CustomID:  i.MessageComponentData().CustomID,
	}, nil
}
