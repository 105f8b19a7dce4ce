package testutil

import (
	"time"

	"curator/models"
)

// CreateTestReactionRole creates a test binding with default values
func CreateTestReactionRole(messageID int64, emoji string, roleID int64) *models.ReactionRole {
	return &models.ReactionRole{
		GuildID:   100,
		ChannelID: 200,
		MessageID: messageID,
		Emoji:     emoji,
		RoleID:    roleID,
	}
}

// CreateTestPoll creates an open multi-choice test poll
func CreateTestPoll(messageID int64) *models.Poll {
	return &models.Poll{
		GuildID:   100,
		ChannelID: 200,
		MessageID: messageID,
		Question:  "what should we play next?",
	}
}

// CreateTestPollOptions creates two options for a test poll
func CreateTestPollOptions() []*models.PollOption {
	return []*models.PollOption{
		{Emoji: "🇦", Label: "chess", OptionOrder: 0},
		{Emoji: "🇧", Label: "checkers", OptionOrder: 1},
	}
}

// CreateTestSuggestion creates a pending test suggestion expiring in a day
func CreateTestSuggestion(messageID int64) *models.Suggestion {
	return &models.Suggestion{
		GuildID:   100,
		ChannelID: 200,
		MessageID: messageID,
		AuthorID:  300,
		Content:   "add a weekly trivia night",
		Status:    models.SuggestionStatusPending,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
}

// CreateTestSuggestionExpiringAt creates a pending test suggestion with a
// specific expiry deadline
func CreateTestSuggestionExpiringAt(messageID int64, expiresAt time.Time) *models.Suggestion {
	suggestion := CreateTestSuggestion(messageID)
	suggestion.ExpiresAt = expiresAt
	return suggestion
}

// CreateTestGiveaway creates an active test giveaway ending in an hour
func CreateTestGiveaway(messageID int64) *models.Giveaway {
	return &models.Giveaway{
		GuildID:      100,
		ChannelID:    200,
		MessageID:    messageID,
		HostID:       300,
		Prize:        "game key",
		WinnersCount: 1,
		Status:       models.GiveawayStatusActive,
		EndsAt:       time.Now().Add(time.Hour),
	}
}

// CreateTestGiveawayEndingAt creates an active test giveaway with a specific
// end deadline
func CreateTestGiveawayEndingAt(messageID int64, endsAt time.Time) *models.Giveaway {
	giveaway := CreateTestGiveaway(messageID)
	giveaway.EndsAt = endsAt
	return giveaway
}
