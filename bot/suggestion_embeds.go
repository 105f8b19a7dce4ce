package bot

import (
	"fmt"

	"curator/models"
	"curator/service"

	"github.com/bwmarrin/discordgo"
)

const (
	colorSuggestionPending  = 0xFEE75C
	colorSuggestionApproved = 0x57F287
	colorSuggestionDenied   = 0xED4245
	colorSuggestionExpired  = 0x99AAB5
)

// BuildSuggestionEmbed renders the status card for a suggestion. Terminal
// suggestions get a banner naming the outcome and the vote count that
// decided it.
func BuildSuggestionEmbed(suggestion *models.Suggestion) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "💡 Suggestion",
		Description: suggestion.Content,
		Color:       suggestionColor(suggestion.Status),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Votes",
				Value:  fmt.Sprintf("%s %d · %s %d", service.UpvoteEmoji, suggestion.Upvotes, service.DownvoteEmoji, suggestion.Downvotes),
				Inline: true,
			},
			{
				Name:   "Author",
				Value:  fmt.Sprintf("<@%d>", suggestion.AuthorID),
				Inline: true,
			},
		},
	}

	if suggestion.IsPending() {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Open until %s", suggestion.ExpiresAt.Format("2006-01-02 15:04 MST")),
		}
		return embed
	}

	banner := suggestionBanner(suggestion)
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "Outcome",
		Value: banner,
	})
	return embed
}

func suggestionBanner(suggestion *models.Suggestion) string {
	switch suggestion.Status {
	case models.SuggestionStatusApproved:
		return fmt.Sprintf("✅ Approved with %d upvotes", suggestion.DecidingVotes())
	case models.SuggestionStatusDenied:
		return fmt.Sprintf("⛔ Denied with %d downvotes", suggestion.DecidingVotes())
	case models.SuggestionStatusExpired:
		return "⏰ Expired without reaching a threshold"
	default:
		return string(suggestion.Status)
	}
}

func suggestionColor(status models.SuggestionStatus) int {
	switch status {
	case models.SuggestionStatusApproved:
		return colorSuggestionApproved
	case models.SuggestionStatusDenied:
		return colorSuggestionDenied
	case models.SuggestionStatusExpired:
		return colorSuggestionExpired
	default:
		return colorSuggestionPending
	}
}
