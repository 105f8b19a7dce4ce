package bot

import (
	"context"
	"fmt"
	"strings"

	"curator/bot/common"
	"curator/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleReactionRoleCommand routes the /reactionrole subcommands
func (b *Bot) handleReactionRoleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		b.respondWithError(s, i, "Invalid command usage")
		return
	}

	switch options[0].Name {
	case "bind":
		b.handleReactionRoleBind(s, i)
	case "list":
		b.handleReactionRoleList(s, i)
	default:
		b.respondWithError(s, i, "Unknown subcommand")
	}
}

// handleReactionRoleBind binds an emoji on an existing message to a role
// and seeds the emoji so members have something to click
func (b *Bot) handleReactionRoleBind(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	options := i.ApplicationCommandData().Options[0].Options
	if len(options) < 3 {
		b.respondWithError(s, i, "Please provide a message ID, an emoji and a role")
		return
	}

	messageID, err := parseSnowflake(options[0].StringValue())
	if err != nil {
		b.respondWithError(s, i, "Invalid message ID")
		return
	}

	emoji := options[1].StringValue()

	role := options[2].RoleValue(s, i.GuildID)
	if role == nil {
		b.respondWithError(s, i, "Invalid role specified")
		return
	}
	roleID, err := parseSnowflake(role.ID)
	if err != nil {
		b.respondWithError(s, i, "Invalid role ID")
		return
	}

	guildID, err := parseSnowflake(i.GuildID)
	if err != nil {
		b.respondWithError(s, i, "Bindings can only be created in a guild")
		return
	}
	channelID, err := parseSnowflake(i.ChannelID)
	if err != nil {
		b.respondWithError(s, i, "Invalid channel")
		return
	}

	binding := &models.ReactionRole{
		GuildID:   guildID,
		ChannelID: channelID,
		MessageID: messageID,
		Emoji:     emoji,
		RoleID:    roleID,
	}

	if err := b.reactionRoleService.CreateBinding(ctx, binding); err != nil {
		log.WithError(err).Error("Failed to create reaction role binding")
		b.respondWithError(s, i, "Could not create the binding; is the emoji already bound on that message?")
		return
	}

	if err := s.MessageReactionAdd(i.ChannelID, options[0].StringValue(), emoji); err != nil {
		log.WithFields(log.Fields{
			"messageID": messageID,
			"emoji":     emoji,
		}).WithError(err).Warn("Failed to seed binding reaction")
	}

	b.respondEphemeral(s, i, fmt.Sprintf("Bound %s to %s on that message.", emoji, role.Mention()))
}

// handleReactionRoleList shows every binding on a message
func (b *Bot) handleReactionRoleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	options := i.ApplicationCommandData().Options[0].Options
	if len(options) == 0 {
		b.respondWithError(s, i, "Please provide a message ID")
		return
	}

	messageID, err := parseSnowflake(options[0].StringValue())
	if err != nil {
		b.respondWithError(s, i, "Invalid message ID")
		return
	}

	bindings, err := b.reactionRoleService.ListBindings(ctx, messageID)
	if err != nil {
		log.WithError(err).Error("Failed to list reaction role bindings")
		b.respondWithError(s, i, "Could not list the bindings")
		return
	}

	if len(bindings) == 0 {
		b.respondEphemeral(s, i, "No bindings on that message.")
		return
	}

	lines := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		lines = append(lines, fmt.Sprintf("%s → <@&%s>", binding.Emoji, formatSnowflake(binding.RoleID)))
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🔗 Reaction Role Bindings",
		Description: strings.Join(lines, "\n"),
		Footer: &discordgo.MessageEmbedFooter{
			Text: common.Pluralize(len(bindings), "binding", "bindings"),
		},
	}

	if err := common.RespondWithEmbed(s, i, embed, nil, true); err != nil {
		log.WithError(err).Error("Failed to respond with binding list")
	}
}
