package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleSettingsCommand routes the /settings subcommands
func (b *Bot) handleSettingsCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		b.respondWithError(s, i, "Invalid command usage")
		return
	}

	switch options[0].Name {
	case "thresholds":
		b.handleSettingsThresholds(s, i)
	case "suggestion-channel":
		b.handleSettingsSuggestionChannel(s, i)
	default:
		b.respondWithError(s, i, "Unknown subcommand")
	}
}

// handleSettingsThresholds sets the auto-resolution vote thresholds;
// omitting a value disables that path
func (b *Bot) handleSettingsThresholds(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, err := parseSnowflake(i.GuildID)
	if err != nil {
		b.respondWithError(s, i, "Settings can only be changed in a guild")
		return
	}

	var approve, deny *int
	for _, option := range i.ApplicationCommandData().Options[0].Options {
		value := int(option.IntValue())
		switch option.Name {
		case "approve":
			approve = &value
		case "deny":
			deny = &value
		}
	}

	if err := b.guildSettingsService.UpdateThresholds(ctx, guildID, approve, deny); err != nil {
		log.WithError(err).Error("Failed to update thresholds")
		b.respondWithError(s, i, "Could not update thresholds; they must be positive")
		return
	}

	b.respondEphemeral(s, i, fmt.Sprintf("Thresholds updated: approve %s, deny %s.",
		describeThreshold(approve), describeThreshold(deny)))
}

// handleSettingsSuggestionChannel designates (or clears) the channel
// suggestion cards are posted into
func (b *Bot) handleSettingsSuggestionChannel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, err := parseSnowflake(i.GuildID)
	if err != nil {
		b.respondWithError(s, i, "Settings can only be changed in a guild")
		return
	}

	var channelID *int64
	options := i.ApplicationCommandData().Options[0].Options
	if len(options) > 0 {
		channel := options[0].ChannelValue(s)
		if channel == nil {
			b.respondWithError(s, i, "Invalid channel specified")
			return
		}
		parsed, err := parseSnowflake(channel.ID)
		if err != nil {
			b.respondWithError(s, i, "Invalid channel ID")
			return
		}
		channelID = &parsed
	}

	if err := b.guildSettingsService.UpdateSuggestionChannel(ctx, guildID, channelID); err != nil {
		log.WithError(err).Error("Failed to update suggestion channel")
		b.respondWithError(s, i, "Could not update the suggestion channel")
		return
	}

	if channelID == nil {
		b.respondEphemeral(s, i, "Suggestion channel cleared; cards post where /suggest is used.")
		return
	}
	b.respondEphemeral(s, i, fmt.Sprintf("Suggestion cards now post in <#%d>.", *channelID))
}

func describeThreshold(threshold *int) string {
	if threshold == nil {
		return "disabled"
	}
	return fmt.Sprintf("%d", *threshold)
}
