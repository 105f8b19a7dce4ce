package models

import (
	"time"
)

// ReactionRole binds an emoji on a specific message to a grantable role.
// Bindings are created by the setup flow and never expire; the engine
// only reads them.
type ReactionRole struct {
	ID        int64     `db:"id"`
	GuildID   int64     `db:"guild_id"`
	ChannelID int64     `db:"channel_id"`
	MessageID int64     `db:"message_id"`
	Emoji     string    `db:"emoji"`
	RoleID    int64     `db:"role_id"`
	CreatedAt time.Time `db:"created_at"`
}
