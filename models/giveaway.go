package models

import (
	"time"
)

// GiveawayStatus represents the state of a giveaway
type GiveawayStatus string

const (
	GiveawayStatusActive GiveawayStatus = "active"
	GiveawayStatusEnded  GiveawayStatus = "ended"
)

// Giveaway represents a prize draw entered through a button press
type Giveaway struct {
	ID           int64          `db:"id"`
	GuildID      int64          `db:"guild_id"`
	ChannelID    int64          `db:"channel_id"`
	MessageID    int64          `db:"message_id"`
	HostID       int64          `db:"host_id"`
	Prize        string         `db:"prize"`
	WinnersCount int            `db:"winners_count"`
	Status       GiveawayStatus `db:"status"`
	EndsAt       time.Time      `db:"ends_at"`
	CreatedAt    time.Time      `db:"created_at"`
	EndedAt      *time.Time     `db:"ended_at"`
}

// GiveawayEntry represents a participant's entry, unique per
// (giveaway_id, participant_id)
type GiveawayEntry struct {
	ID            int64     `db:"id"`
	GiveawayID    int64     `db:"giveaway_id"`
	ParticipantID int64     `db:"participant_id"`
	CreatedAt     time.Time `db:"created_at"`
}

// IsActive reports whether the giveaway still accepts entry toggles
func (g *Giveaway) IsActive() bool {
	return g.Status == GiveawayStatusActive
}

// IsDueAt reports whether the giveaway's end deadline has passed
func (g *Giveaway) IsDueAt(now time.Time) bool {
	return g.Status == GiveawayStatusActive && !g.EndsAt.After(now)
}
