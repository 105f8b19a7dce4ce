package models

import (
	"time"
)

// GuildSettings holds per-guild configuration for the suggestion lifecycle.
// A nil threshold disables the corresponding auto-resolution path.
type GuildSettings struct {
	GuildID              int64     `db:"guild_id"`
	SuggestionChannelID  *int64    `db:"suggestion_channel_id"`
	ApproveThreshold     *int      `db:"approve_threshold"`
	DenyThreshold        *int      `db:"deny_threshold"`
	SuggestionExpiryDays int       `db:"suggestion_expiry_days"`
	CreatedAt            time.Time `db:"created_at"`
	UpdatedAt            time.Time `db:"updated_at"`
}

// ApproveEnabled reports whether threshold-based approval is configured
func (gs *GuildSettings) ApproveEnabled() bool {
	return gs.ApproveThreshold != nil && *gs.ApproveThreshold > 0
}

// DenyEnabled reports whether threshold-based denial is configured
func (gs *GuildSettings) DenyEnabled() bool {
	return gs.DenyThreshold != nil && *gs.DenyThreshold > 0
}
