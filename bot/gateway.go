package bot

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// discordGateway adapts a discordgo session to the narrow platform surface
// the services consume. All IDs cross this boundary as int64 and are
// converted to snowflake strings here.
type discordGateway struct {
	session *discordgo.Session
}

func newDiscordGateway(session *discordgo.Session) *discordGateway {
	return &discordGateway{session: session}
}

// ReactionCount pages through the reaction's user list and returns the
// total, bot reactions included.
func (g *discordGateway) ReactionCount(ctx context.Context, channelID, messageID int64, emoji string) (int, error) {
	channel := formatSnowflake(channelID)
	message := formatSnowflake(messageID)

	count := 0
	afterID := ""
	for {
		users, err := g.session.MessageReactions(channel, message, emoji, 100, "", afterID)
		if err != nil {
			return 0, fmt.Errorf("failed to fetch reactions for message %s: %w", message, err)
		}
		count += len(users)
		if len(users) < 100 {
			return count, nil
		}
		afterID = users[len(users)-1].ID
	}
}

func (g *discordGateway) RemoveUserReaction(ctx context.Context, channelID, messageID int64, emoji string, userID int64) error {
	return g.session.MessageReactionRemove(
		formatSnowflake(channelID),
		formatSnowflake(messageID),
		emoji,
		formatSnowflake(userID),
	)
}

func (g *discordGateway) GrantRole(ctx context.Context, guildID, userID, roleID int64) error {
	return g.session.GuildMemberRoleAdd(
		formatSnowflake(guildID),
		formatSnowflake(userID),
		formatSnowflake(roleID),
	)
}

func (g *discordGateway) RevokeRole(ctx context.Context, guildID, userID, roleID int64) error {
	return g.session.GuildMemberRoleRemove(
		formatSnowflake(guildID),
		formatSnowflake(userID),
		formatSnowflake(roleID),
	)
}

func (g *discordGateway) MemberHasRole(ctx context.Context, guildID, userID, roleID int64) (bool, error) {
	member, err := g.session.GuildMember(formatSnowflake(guildID), formatSnowflake(userID))
	if err != nil {
		return false, fmt.Errorf("failed to fetch guild member %d: %w", userID, err)
	}

	role := formatSnowflake(roleID)
	for _, held := range member.Roles {
		if held == role {
			return true, nil
		}
	}
	return false, nil
}

// formatSnowflake converts an int64 ID to Discord's string form
func formatSnowflake(id int64) string {
	return strconv.FormatInt(id, 10)
}
