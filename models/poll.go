package models

import (
	"time"
)

// Poll represents a reaction-driven poll attached to a message
type Poll struct {
	ID        int64      `db:"id"`
	GuildID   int64      `db:"guild_id"`
	ChannelID int64      `db:"channel_id"`
	MessageID int64      `db:"message_id"`
	Question  string     `db:"question"`
	Exclusive bool       `db:"exclusive"`
	Closed    bool       `db:"closed"`
	CreatedAt time.Time  `db:"created_at"`
	ClosedAt  *time.Time `db:"closed_at"`
}

// PollOption represents one selectable answer of a poll. Votes is always a
// snapshot recomputed from the live reaction aggregate minus the bot's own
// seed reaction; it is never incremented or decremented in place.
type PollOption struct {
	ID          int64     `db:"id"`
	PollID      int64     `db:"poll_id"`
	Emoji       string    `db:"emoji"`
	Label       string    `db:"label"`
	OptionOrder int16     `db:"option_order"`
	Votes       int       `db:"votes"`
	CreatedAt   time.Time `db:"created_at"`
}

// PollDetail combines a poll with its options
type PollDetail struct {
	Poll    *Poll
	Options []*PollOption
}

// IsOpen reports whether the poll still accepts vote mutations
func (p *Poll) IsOpen() bool {
	return !p.Closed
}

// OptionByEmoji returns the option carrying the given emoji, or nil
func (pd *PollDetail) OptionByEmoji(emoji string) *PollOption {
	for _, option := range pd.Options {
		if option.Emoji == emoji {
			return option
		}
	}
	return nil
}

// TotalVotes sums the recorded vote snapshots across all options
func (pd *PollDetail) TotalVotes() int {
	total := 0
	for _, option := range pd.Options {
		total += option.Votes
	}
	return total
}
