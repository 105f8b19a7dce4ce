package bot

import (
	"fmt"
	"strings"

	"curator/bot/common"
	"curator/models"

	"github.com/bwmarrin/discordgo"
)

const (
	colorPollOpen   = 0x5865F2
	colorPollClosed = 0x99AAB5
)

// BuildPollEmbed renders the tally card for a poll. Vote numbers come from
// the persisted snapshots, never from counting the message's reactions at
// render time.
func BuildPollEmbed(detail *models.PollDetail) *discordgo.MessageEmbed {
	total := detail.TotalVotes()

	var body strings.Builder
	for _, option := range detail.Options {
		fmt.Fprintf(&body, "%s **%s**\n%s %s\n\n",
			option.Emoji,
			option.Label,
			common.FormatVoteBar(option.Votes, total),
			common.FormatVoteCount(option.Votes, total),
		)
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("📊 %s", detail.Poll.Question),
		Description: body.String(),
		Color:       colorPollOpen,
		Footer: &discordgo.MessageEmbedFooter{
			Text: pollFooter(detail),
		},
	}

	if detail.Poll.Closed {
		embed.Color = colorPollClosed
	}

	return embed
}

func pollFooter(detail *models.PollDetail) string {
	parts := []string{common.Pluralize(detail.TotalVotes(), "vote", "votes")}
	if detail.Poll.Exclusive {
		parts = append(parts, "one choice per voter")
	}
	if detail.Poll.Closed {
		parts = append(parts, "closed")
	}
	return strings.Join(parts, " · ")
}
