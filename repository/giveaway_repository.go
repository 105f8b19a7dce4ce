package repository

import (
	"context"
	"fmt"
	"time"

	"curator/database"
	"curator/models"

	"github.com/jackc/pgx/v5"
)

// GiveawayRepository implements giveaway and entry data access
type GiveawayRepository struct {
	q queryable
}

// NewGiveawayRepository creates a new giveaway repository
func NewGiveawayRepository(db *database.DB) *GiveawayRepository {
	return &GiveawayRepository{q: db.Pool}
}

// newGiveawayRepositoryWithTx creates a new giveaway repository with a transaction
func newGiveawayRepositoryWithTx(tx queryable) *GiveawayRepository {
	return &GiveawayRepository{q: tx}
}

// Create creates a new active giveaway
func (r *GiveawayRepository) Create(ctx context.Context, giveaway *models.Giveaway) error {
	query := `
		INSERT INTO giveaways (guild_id, channel_id, message_id, host_id, prize, winners_count, status, ends_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	if giveaway.Status == "" {
		giveaway.Status = models.GiveawayStatusActive
	}
	if giveaway.WinnersCount <= 0 {
		giveaway.WinnersCount = 1
	}

	err := r.q.QueryRow(ctx, query,
		giveaway.GuildID,
		giveaway.ChannelID,
		giveaway.MessageID,
		giveaway.HostID,
		giveaway.Prize,
		giveaway.WinnersCount,
		giveaway.Status,
		giveaway.EndsAt,
	).Scan(&giveaway.ID, &giveaway.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create giveaway: %w", err)
	}

	return nil
}

// GetByID retrieves a giveaway by its ID
func (r *GiveawayRepository) GetByID(ctx context.Context, id int64) (*models.Giveaway, error) {
	return r.getBy(ctx, "id", id)
}

// GetByMessageID retrieves a giveaway by its message ID
func (r *GiveawayRepository) GetByMessageID(ctx context.Context, messageID int64) (*models.Giveaway, error) {
	return r.getBy(ctx, "message_id", messageID)
}

func (r *GiveawayRepository) getBy(ctx context.Context, column string, value int64) (*models.Giveaway, error) {
	query := fmt.Sprintf(`
		SELECT id, guild_id, channel_id, message_id, host_id, prize, winners_count, status, ends_at, created_at, ended_at
		FROM giveaways
		WHERE %s = $1
	`, column)

	var giveaway models.Giveaway
	err := r.q.QueryRow(ctx, query, value).Scan(
		&giveaway.ID,
		&giveaway.GuildID,
		&giveaway.ChannelID,
		&giveaway.MessageID,
		&giveaway.HostID,
		&giveaway.Prize,
		&giveaway.WinnersCount,
		&giveaway.Status,
		&giveaway.EndsAt,
		&giveaway.CreatedAt,
		&giveaway.EndedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get giveaway by %s %d: %w", column, value, err)
	}

	return &giveaway, nil
}

// HasEntry reports whether the participant currently has an entry
func (r *GiveawayRepository) HasEntry(ctx context.Context, giveawayID, participantID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM giveaway_entries WHERE giveaway_id = $1 AND participant_id = $2)`

	var exists bool
	if err := r.q.QueryRow(ctx, query, giveawayID, participantID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check entry for giveaway %d: %w", giveawayID, err)
	}

	return exists, nil
}

// AddEntry inserts an entry. ON CONFLICT DO NOTHING makes a repeated join a
// no-op, which keeps the toggle idempotent under replayed events.
func (r *GiveawayRepository) AddEntry(ctx context.Context, giveawayID, participantID int64) error {
	query := `
		INSERT INTO giveaway_entries (giveaway_id, participant_id)
		VALUES ($1, $2)
		ON CONFLICT (giveaway_id, participant_id) DO NOTHING
	`

	if _, err := r.q.Exec(ctx, query, giveawayID, participantID); err != nil {
		return fmt.Errorf("failed to add entry for giveaway %d: %w", giveawayID, err)
	}

	return nil
}

// RemoveEntry deletes an entry; deleting a missing pair is a no-op
func (r *GiveawayRepository) RemoveEntry(ctx context.Context, giveawayID, participantID int64) error {
	query := `DELETE FROM giveaway_entries WHERE giveaway_id = $1 AND participant_id = $2`

	if _, err := r.q.Exec(ctx, query, giveawayID, participantID); err != nil {
		return fmt.Errorf("failed to remove entry for giveaway %d: %w", giveawayID, err)
	}

	return nil
}

// CountEntries returns a fresh participant count
func (r *GiveawayRepository) CountEntries(ctx context.Context, giveawayID int64) (int, error) {
	query := `SELECT COUNT(*) FROM giveaway_entries WHERE giveaway_id = $1`

	var count int
	if err := r.q.QueryRow(ctx, query, giveawayID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count entries for giveaway %d: %w", giveawayID, err)
	}

	return count, nil
}

// ListEntries returns all participant IDs for a giveaway
func (r *GiveawayRepository) ListEntries(ctx context.Context, giveawayID int64) ([]int64, error) {
	query := `
		SELECT participant_id
		FROM giveaway_entries
		WHERE giveaway_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.q.Query(ctx, query, giveawayID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for giveaway %d: %w", giveawayID, err)
	}
	defer rows.Close()

	var participants []int64
	for rows.Next() {
		var participantID int64
		if err := rows.Scan(&participantID); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		participants = append(participants, participantID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}

	return participants, nil
}

// ListDue returns active giveaways whose end deadline has passed
func (r *GiveawayRepository) ListDue(ctx context.Context, now time.Time) ([]*models.Giveaway, error) {
	query := `
		SELECT id, guild_id, channel_id, message_id, host_id, prize, winners_count, status, ends_at, created_at, ended_at
		FROM giveaways
		WHERE status = 'active' AND ends_at <= $1
		ORDER BY ends_at ASC
	`

	rows, err := r.q.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list due giveaways: %w", err)
	}
	defer rows.Close()

	var giveaways []*models.Giveaway
	for rows.Next() {
		var giveaway models.Giveaway
		err := rows.Scan(
			&giveaway.ID,
			&giveaway.GuildID,
			&giveaway.ChannelID,
			&giveaway.MessageID,
			&giveaway.HostID,
			&giveaway.Prize,
			&giveaway.WinnersCount,
			&giveaway.Status,
			&giveaway.EndsAt,
			&giveaway.CreatedAt,
			&giveaway.EndedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan giveaway: %w", err)
		}
		giveaways = append(giveaways, &giveaway)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate giveaways: %w", err)
	}

	return giveaways, nil
}

// MarkEnded performs the guarded active -> ended transition
func (r *GiveawayRepository) MarkEnded(ctx context.Context, id int64, endedAt time.Time) (bool, error) {
	query := `
		UPDATE giveaways
		SET status = 'ended', ended_at = $2
		WHERE id = $1 AND status = 'active'
	`

	tag, err := r.q.Exec(ctx, query, id, endedAt)
	if err != nil {
		return false, fmt.Errorf("failed to end giveaway %d: %w", id, err)
	}

	return tag.RowsAffected() == 1, nil
}
