package bot

import (
	"context"
	"fmt"
	"strconv"

	"curator/bot/common"
	"curator/models"
	"curator/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Poll drafts are built up across several interactions, so the in-progress
// state lives in the session store keyed by the invoking user. Session
// config keys used by the builder:
//
//	question, exclusive, option_count, option_<n>_emoji, option_<n>_label
const (
	sessionKeyQuestion    = "question"
	sessionKeyExclusive   = "exclusive"
	sessionKeyOptionCount = "option_count"
)

// handlePollCommand routes the /poll subcommands
func (b *Bot) handlePollCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		b.respondWithError(s, i, "Invalid command usage")
		return
	}

	switch options[0].Name {
	case "create":
		b.handlePollCreate(s, i)
	case "option":
		b.handlePollOption(s, i)
	case "post":
		b.handlePollPost(s, i)
	case "cancel":
		b.handlePollCancel(s, i)
	case "close":
		b.handlePollClose(s, i)
	default:
		b.respondWithError(s, i, "Unknown subcommand")
	}
}

// handlePollCreate starts a poll builder session for the invoking user
func (b *Bot) handlePollCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options[0].Options
	if len(options) == 0 {
		b.respondWithError(s, i, "Please provide a question")
		return
	}

	actorID, err := interactionActorID(i)
	if err != nil {
		b.respondWithError(s, i, "Could not identify you")
		return
	}

	question := options[0].StringValue()
	exclusive := false
	if len(options) > 1 {
		exclusive = options[1].BoolValue()
	}

	b.sessions.Start(actorID, map[string]string{
		sessionKeyQuestion:    question,
		sessionKeyExclusive:   strconv.FormatBool(exclusive),
		sessionKeyOptionCount: "0",
	})

	b.respondEphemeral(s, i, fmt.Sprintf(
		"Poll draft started: **%s**\nAdd options with `/poll option`, then publish with `/poll post`.", question))
}

// handlePollOption appends an option to the invoking user's draft
func (b *Bot) handlePollOption(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options[0].Options
	if len(options) < 2 {
		b.respondWithError(s, i, "Please provide an emoji and a label")
		return
	}

	actorID, err := interactionActorID(i)
	if err != nil {
		b.respondWithError(s, i, "Could not identify you")
		return
	}

	emoji := options[0].StringValue()
	label := options[1].StringValue()

	session, ok := b.sessions.Mutate(actorID, func(config map[string]string) {
		count, _ := strconv.Atoi(config[sessionKeyOptionCount])
		config[fmt.Sprintf("option_%d_emoji", count)] = emoji
		config[fmt.Sprintf("option_%d_label", count)] = label
		config[sessionKeyOptionCount] = strconv.Itoa(count + 1)
	})
	if !ok {
		b.respondWithError(s, i, "No poll draft in progress. Start one with `/poll create`.")
		return
	}

	count, _ := strconv.Atoi(session.Config[sessionKeyOptionCount])
	b.respondEphemeral(s, i, fmt.Sprintf("Added option %s **%s** (%d so far).", emoji, label, count))
}

// handlePollPost publishes the draft: the tally card is posted first so the
// poll row can record the real message ID, then the bot seeds one reaction
// per option.
func (b *Bot) handlePollPost(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	actorID, err := interactionActorID(i)
	if err != nil {
		b.respondWithError(s, i, "Could not identify you")
		return
	}

	session, ok := b.sessions.Get(actorID)
	if !ok {
		b.respondWithError(s, i, "No poll draft in progress. Start one with `/poll create`.")
		return
	}

	poll, pollOptions, err := draftFromSession(i, session)
	if err != nil {
		b.respondWithError(s, i, err.Error())
		return
	}

	if err := common.DeferResponse(s, i, true); err != nil {
		log.WithError(err).Error("Failed to defer poll post response")
		return
	}

	message, err := s.ChannelMessageSendEmbed(i.ChannelID, BuildPollEmbed(&models.PollDetail{Poll: poll, Options: pollOptions}))
	if err != nil {
		b.followUpWithError(s, i, "Could not post the poll message")
		return
	}

	poll.MessageID, err = parseSnowflake(message.ID)
	if err != nil {
		b.followUpWithError(s, i, "Could not read the posted message ID")
		return
	}

	detail, err := b.pollService.CreatePoll(ctx, poll, pollOptions)
	if err != nil {
		log.WithError(err).Error("Failed to create poll")
		b.followUpWithError(s, i, "Could not create the poll")
		return
	}

	for _, option := range detail.Options {
		if err := s.MessageReactionAdd(i.ChannelID, message.ID, option.Emoji); err != nil {
			log.WithFields(log.Fields{
				"pollID": detail.Poll.ID,
				"emoji":  option.Emoji,
			}).WithError(err).Warn("Failed to seed poll reaction")
		}
	}

	b.sessions.End(actorID)
	b.followUp(s, i, "📊 Poll published.")
}

// handlePollCancel discards the invoking user's draft
func (b *Bot) handlePollCancel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	actorID, err := interactionActorID(i)
	if err != nil {
		b.respondWithError(s, i, "Could not identify you")
		return
	}

	b.sessions.End(actorID)
	b.respondEphemeral(s, i, "Poll draft discarded.")
}

// handlePollClose closes the poll on the given message
func (b *Bot) handlePollClose(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	options := i.ApplicationCommandData().Options[0].Options
	if len(options) == 0 {
		b.respondWithError(s, i, "Please provide the poll message ID")
		return
	}

	messageID, err := parseSnowflake(options[0].StringValue())
	if err != nil {
		b.respondWithError(s, i, "Invalid message ID")
		return
	}

	detail, err := b.pollService.GetPollByMessageID(ctx, messageID)
	if err != nil {
		log.WithError(err).Error("Failed to look up poll")
		b.respondWithError(s, i, "Could not look up the poll")
		return
	}
	if detail == nil {
		b.respondWithError(s, i, "No poll found on that message")
		return
	}

	if err := common.DeferResponse(s, i, true); err != nil {
		log.WithError(err).Error("Failed to defer poll close response")
		return
	}

	if err := b.pollService.ClosePoll(ctx, detail.Poll.ID); err != nil {
		log.WithError(err).Error("Failed to close poll")
		b.followUpWithError(s, i, "Could not close the poll")
		return
	}

	// Re-read the closed poll so the card and the reviewer's summary show
	// the persisted state, not a locally patched copy
	closed, err := b.pollService.GetPollByID(ctx, detail.Poll.ID)
	if err != nil || closed == nil {
		log.WithError(err).Error("Failed to reload closed poll")
		b.followUpWithError(s, i, "Poll closed, but its card could not be refreshed")
		return
	}

	if err := common.EditMessageEmbed(s, formatSnowflake(closed.Poll.ChannelID), formatSnowflake(closed.Poll.MessageID), BuildPollEmbed(closed), nil); err != nil {
		log.WithError(err).Warn("Failed to re-render closed poll")
	}

	if _, err := common.FollowUpWithEmbed(s, i, BuildPollEmbed(closed), nil, true); err != nil {
		log.WithError(err).Warn("Failed to send closed poll summary")
	}
}

// draftFromSession materializes the poll and its options from builder state
func draftFromSession(i *discordgo.InteractionCreate, session service.Session) (*models.Poll, []*models.PollOption, error) {
	count, _ := strconv.Atoi(session.Config[sessionKeyOptionCount])
	if count < 2 {
		return nil, nil, fmt.Errorf("a poll needs at least two options; %d added so far", count)
	}

	guildID, err := parseSnowflake(i.GuildID)
	if err != nil {
		return nil, nil, fmt.Errorf("polls can only be posted in a guild")
	}
	channelID, err := parseSnowflake(i.ChannelID)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid channel")
	}

	exclusive, _ := strconv.ParseBool(session.Config[sessionKeyExclusive])
	poll := &models.Poll{
		GuildID:   guildID,
		ChannelID: channelID,
		Question:  session.Config[sessionKeyQuestion],
		Exclusive: exclusive,
	}

	options := make([]*models.PollOption, 0, count)
	for n := 0; n < count; n++ {
		options = append(options, &models.PollOption{
			Emoji:       session.Config[fmt.Sprintf("option_%d_emoji", n)],
			Label:       session.Config[fmt.Sprintf("option_%d_label", n)],
			OptionOrder: int16(n),
		})
	}

	return poll, options, nil
}
