package bot

import (
	"fmt"
	"strings"

	"curator/bot/common"
	"curator/models"
	"curator/service"

	"github.com/bwmarrin/discordgo"
)

const (
	colorGiveawayActive = 0xEB459E
	colorGiveawayEnded  = 0x99AAB5
)

// BuildGiveawayEmbed renders the giveaway card with its live entry count
func BuildGiveawayEmbed(giveaway *models.Giveaway, entries int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🎉 %s", giveaway.Prize),
		Description: fmt.Sprintf("Press the button below to enter. Press again to withdraw.\nEnds %s", FormatDiscordTimestamp(giveaway.EndsAt, "R")),
		Color:       colorGiveawayActive,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%s · %s", common.Pluralize(entries, "entry", "entries"), common.Pluralize(giveaway.WinnersCount, "winner", "winners")),
		},
	}

	if !giveaway.IsActive() {
		embed.Color = colorGiveawayEnded
		embed.Description = "This giveaway has ended."
	}

	return embed
}

// BuildGiveawayComponents returns the entry button row. The button is
// disabled once the giveaway has ended.
func BuildGiveawayComponents(giveaway *models.Giveaway) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Enter giveaway",
					Style:    discordgo.PrimaryButton,
					CustomID: service.BuildCustomID(service.GiveawayButtonNamespace, "enter"),
					Disabled: !giveaway.IsActive(),
				},
			},
		},
	}
}

// FormatWinnerAnnouncement renders the channel message posted when a
// giveaway ends
func FormatWinnerAnnouncement(giveaway *models.Giveaway, winnerIDs []int64) string {
	if len(winnerIDs) == 0 {
		return fmt.Sprintf("🎉 The giveaway for **%s** ended with no entries.", giveaway.Prize)
	}

	mentions := make([]string, 0, len(winnerIDs))
	for _, id := range winnerIDs {
		mentions = append(mentions, fmt.Sprintf("<@%d>", id))
	}
	return fmt.Sprintf("🎉 Congratulations %s! You won **%s**.", strings.Join(mentions, ", "), giveaway.Prize)
}
