package bot

import (
	"context"
	"time"

	"curator/bot/common"
	"curator/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleGiveawayCommand routes the /giveaway subcommands
func (b *Bot) handleGiveawayCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		b.respondWithError(s, i, "Invalid command usage")
		return
	}

	switch options[0].Name {
	case "create":
		b.handleGiveawayCreate(s, i)
	default:
		b.respondWithError(s, i, "Unknown subcommand")
	}
}

// handleGiveawayCreate posts the giveaway card with its entry button and
// registers the giveaway
func (b *Bot) handleGiveawayCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	options := i.ApplicationCommandData().Options[0].Options
	if len(options) < 2 {
		b.respondWithError(s, i, "Please provide a prize and a duration")
		return
	}

	prize := options[0].StringValue()
	durationMinutes := options[1].IntValue()
	if durationMinutes <= 0 {
		b.respondWithError(s, i, "Duration must be positive")
		return
	}

	winners := 1
	if len(options) > 2 {
		winners = int(options[2].IntValue())
	}
	if winners <= 0 {
		b.respondWithError(s, i, "Winner count must be positive")
		return
	}

	actorID, err := interactionActorID(i)
	if err != nil {
		b.respondWithError(s, i, "Could not identify you")
		return
	}
	guildID, err := parseSnowflake(i.GuildID)
	if err != nil {
		b.respondWithError(s, i, "Giveaways can only be created in a guild")
		return
	}
	channelID, err := parseSnowflake(i.ChannelID)
	if err != nil {
		b.respondWithError(s, i, "Invalid channel")
		return
	}

	if err := common.DeferResponse(s, i, true); err != nil {
		log.WithError(err).Error("Failed to defer giveaway response")
		return
	}

	giveaway := &models.Giveaway{
		GuildID:      guildID,
		ChannelID:    channelID,
		HostID:       actorID,
		Prize:        prize,
		WinnersCount: winners,
		Status:       models.GiveawayStatusActive,
		EndsAt:       time.Now().Add(time.Duration(durationMinutes) * time.Minute),
	}

	message, err := s.ChannelMessageSendComplex(i.ChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{BuildGiveawayEmbed(giveaway, 0)},
		Components: BuildGiveawayComponents(giveaway),
	})
	if err != nil {
		b.followUpWithError(s, i, "Could not post the giveaway card")
		return
	}

	giveaway.MessageID, err = parseSnowflake(message.ID)
	if err != nil {
		b.followUpWithError(s, i, "Could not read the posted message ID")
		return
	}

	if err := b.giveawayService.CreateGiveaway(ctx, giveaway); err != nil {
		log.WithError(err).Error("Failed to create giveaway")
		b.followUpWithError(s, i, "Could not register the giveaway")
		return
	}

	b.followUp(s, i, "🎉 Giveaway started.")
}
