package repository

import (
	"context"
	"fmt"

	"curator/database"
	"curator/models"

	"github.com/jackc/pgx/v5"
)

// PollRepository implements poll data access
type PollRepository struct {
	q queryable
}

// NewPollRepository creates a new poll repository
func NewPollRepository(db *database.DB) *PollRepository {
	return &PollRepository{q: db.Pool}
}

// newPollRepositoryWithTx creates a new poll repository with a transaction
func newPollRepositoryWithTx(tx queryable) *PollRepository {
	return &PollRepository{q: tx}
}

// CreateWithOptions creates a poll and its options atomically
func (r *PollRepository) CreateWithOptions(ctx context.Context, poll *models.Poll, options []*models.PollOption) error {
	pollQuery := `
		INSERT INTO polls (guild_id, channel_id, message_id, question, exclusive)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, pollQuery,
		poll.GuildID,
		poll.ChannelID,
		poll.MessageID,
		poll.Question,
		poll.Exclusive,
	).Scan(&poll.ID, &poll.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create poll: %w", err)
	}

	optionQuery := `
		INSERT INTO poll_options (poll_id, emoji, label, option_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	for _, option := range options {
		option.PollID = poll.ID
		err := r.q.QueryRow(ctx, optionQuery,
			option.PollID,
			option.Emoji,
			option.Label,
			option.OptionOrder,
		).Scan(&option.ID, &option.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create poll option %q: %w", option.Emoji, err)
		}
	}

	return nil
}

// GetDetailByID retrieves a poll with its options
func (r *PollRepository) GetDetailByID(ctx context.Context, id int64) (*models.PollDetail, error) {
	return r.getDetail(ctx, "id", id)
}

// GetDetailByMessageID retrieves a poll with its options by message
func (r *PollRepository) GetDetailByMessageID(ctx context.Context, messageID int64) (*models.PollDetail, error) {
	return r.getDetail(ctx, "message_id", messageID)
}

func (r *PollRepository) getDetail(ctx context.Context, column string, value int64) (*models.PollDetail, error) {
	pollQuery := fmt.Sprintf(`
		SELECT id, guild_id, channel_id, message_id, question, exclusive, closed, created_at, closed_at
		FROM polls
		WHERE %s = $1
	`, column)

	var poll models.Poll
	err := r.q.QueryRow(ctx, pollQuery, value).Scan(
		&poll.ID,
		&poll.GuildID,
		&poll.ChannelID,
		&poll.MessageID,
		&poll.Question,
		&poll.Exclusive,
		&poll.Closed,
		&poll.CreatedAt,
		&poll.ClosedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get poll by %s %d: %w", column, value, err)
	}

	optionQuery := `
		SELECT id, poll_id, emoji, label, option_order, votes, created_at
		FROM poll_options
		WHERE poll_id = $1
		ORDER BY option_order ASC
	`

	rows, err := r.q.Query(ctx, optionQuery, poll.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get options for poll %d: %w", poll.ID, err)
	}
	defer rows.Close()

	var options []*models.PollOption
	for rows.Next() {
		var option models.PollOption
		err := rows.Scan(
			&option.ID,
			&option.PollID,
			&option.Emoji,
			&option.Label,
			&option.OptionOrder,
			&option.Votes,
			&option.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan poll option: %w", err)
		}
		options = append(options, &option)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate poll options: %w", err)
	}

	return &models.PollDetail{Poll: &poll, Options: options}, nil
}

// UpdateOptionVotes overwrites an option's vote snapshot
func (r *PollRepository) UpdateOptionVotes(ctx context.Context, optionID int64, votes int) error {
	query := `UPDATE poll_options SET votes = $2 WHERE id = $1`

	tag, err := r.q.Exec(ctx, query, optionID, votes)
	if err != nil {
		return fmt.Errorf("failed to update votes for option %d: %w", optionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("poll option %d not found", optionID)
	}

	return nil
}

// Close marks a poll closed
func (r *PollRepository) Close(ctx context.Context, pollID int64) error {
	query := `
		UPDATE polls
		SET closed = TRUE, closed_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND NOT closed
	`

	if _, err := r.q.Exec(ctx, query, pollID); err != nil {
		return fmt.Errorf("failed to close poll %d: %w", pollID, err)
	}

	return nil
}
