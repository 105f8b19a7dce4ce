package bot

import (
	"context"
	"fmt"

	"curator/bot/common"
	"curator/models"
	"curator/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleSuggestCommand handles /suggest: posts the status card (into the
// configured suggestion channel when one is set), registers the suggestion
// and seeds the two vote reactions.
func (b *Bot) handleSuggestCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		b.respondWithError(s, i, "Please describe your suggestion")
		return
	}
	content := options[0].StringValue()

	actorID, err := interactionActorID(i)
	if err != nil {
		b.respondWithError(s, i, "Could not identify you")
		return
	}

	guildID, err := parseSnowflake(i.GuildID)
	if err != nil {
		b.respondWithError(s, i, "Suggestions can only be made in a guild")
		return
	}

	settings, err := b.guildSettingsService.GetOrCreateSettings(ctx, guildID)
	if err != nil {
		log.WithError(err).Error("Failed to load guild settings")
		b.respondWithError(s, i, "Could not load guild settings")
		return
	}

	targetChannel := i.ChannelID
	if settings.SuggestionChannelID != nil {
		targetChannel = formatSnowflake(*settings.SuggestionChannelID)
	}
	channelID, err := parseSnowflake(targetChannel)
	if err != nil {
		b.respondWithError(s, i, "Invalid suggestion channel")
		return
	}

	if err := common.DeferResponse(s, i, true); err != nil {
		log.WithError(err).Error("Failed to defer suggestion response")
		return
	}

	suggestion := &models.Suggestion{
		GuildID:   guildID,
		ChannelID: channelID,
		AuthorID:  actorID,
		Content:   content,
		Status:    models.SuggestionStatusPending,
	}

	message, err := s.ChannelMessageSendEmbed(targetChannel, BuildSuggestionEmbed(suggestion))
	if err != nil {
		b.followUpWithError(s, i, "Could not post the suggestion card")
		return
	}

	suggestion.MessageID, err = parseSnowflake(message.ID)
	if err != nil {
		b.followUpWithError(s, i, "Could not read the posted message ID")
		return
	}

	if err := b.suggestionService.CreateSuggestion(ctx, suggestion); err != nil {
		log.WithError(err).Error("Failed to create suggestion")
		b.followUpWithError(s, i, "Could not register the suggestion")
		return
	}

	for _, emoji := range []string{service.UpvoteEmoji, service.DownvoteEmoji} {
		if err := s.MessageReactionAdd(targetChannel, message.ID, emoji); err != nil {
			log.WithFields(log.Fields{
				"suggestionID": suggestion.ID,
				"emoji":        emoji,
			}).WithError(err).Warn("Failed to seed vote reaction")
		}
	}

	b.followUp(s, i, "💡 Suggestion posted.")
}

// handleSuggestionsCommand routes the /suggestions admin subcommands
func (b *Bot) handleSuggestionsCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		b.respondWithError(s, i, "Invalid command usage")
		return
	}

	switch options[0].Name {
	case "resolve":
		b.handleSuggestionResolve(s, i)
	default:
		b.respondWithError(s, i, "Unknown subcommand")
	}
}

// handleSuggestionResolve performs a manual approve/deny on behalf of a reviewer
func (b *Bot) handleSuggestionResolve(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	options := i.ApplicationCommandData().Options[0].Options
	if len(options) < 2 {
		b.respondWithError(s, i, "Please provide a suggestion ID and a decision")
		return
	}

	suggestionID := options[0].IntValue()
	decision := models.SuggestionStatus(options[1].StringValue())
	if decision != models.SuggestionStatusApproved && decision != models.SuggestionStatusDenied {
		b.respondWithError(s, i, "Decision must be approved or denied")
		return
	}

	actorID, err := interactionActorID(i)
	if err != nil {
		b.respondWithError(s, i, "Could not identify you")
		return
	}

	outcome, err := b.suggestionService.ResolveSuggestion(ctx, suggestionID, decision, formatSnowflake(actorID))
	if err != nil {
		log.WithError(err).Error("Failed to resolve suggestion")
		b.respondWithError(s, i, "Could not resolve the suggestion")
		return
	}

	if outcome.Status == models.OutcomeRejected {
		b.respondEphemeral(s, i, "That suggestion is already finished.")
		return
	}

	b.respondEphemeral(s, i, fmt.Sprintf("Suggestion %d %s.", suggestionID, decision))
}
