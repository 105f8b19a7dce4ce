package repository

import (
	"context"
	"fmt"
	"time"

	"curator/database"
	"curator/models"

	"github.com/jackc/pgx/v5"
)

// SuggestionRepository implements suggestion data access
type SuggestionRepository struct {
	q queryable
}

// NewSuggestionRepository creates a new suggestion repository
func NewSuggestionRepository(db *database.DB) *SuggestionRepository {
	return &SuggestionRepository{q: db.Pool}
}

// newSuggestionRepositoryWithTx creates a new suggestion repository with a transaction
func newSuggestionRepositoryWithTx(tx queryable) *SuggestionRepository {
	return &SuggestionRepository{q: tx}
}

// Create creates a new pending suggestion
func (r *SuggestionRepository) Create(ctx context.Context, suggestion *models.Suggestion) error {
	query := `
		INSERT INTO suggestions (guild_id, channel_id, message_id, author_id, content, status, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	if suggestion.Status == "" {
		suggestion.Status = models.SuggestionStatusPending
	}

	err := r.q.QueryRow(ctx, query,
		suggestion.GuildID,
		suggestion.ChannelID,
		suggestion.MessageID,
		suggestion.AuthorID,
		suggestion.Content,
		suggestion.Status,
		suggestion.ExpiresAt,
	).Scan(&suggestion.ID, &suggestion.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create suggestion: %w", err)
	}

	return nil
}

// GetByID retrieves a suggestion by its ID
func (r *SuggestionRepository) GetByID(ctx context.Context, id int64) (*models.Suggestion, error) {
	return r.getBy(ctx, "id", id)
}

// GetByMessageID retrieves a suggestion by its message ID
func (r *SuggestionRepository) GetByMessageID(ctx context.Context, messageID int64) (*models.Suggestion, error) {
	return r.getBy(ctx, "message_id", messageID)
}

func (r *SuggestionRepository) getBy(ctx context.Context, column string, value int64) (*models.Suggestion, error) {
	query := fmt.Sprintf(`
		SELECT id, guild_id, channel_id, message_id, author_id, content, status,
		       upvotes, downvotes, expires_at, reviewed_at, reviewed_by, created_at
		FROM suggestions
		WHERE %s = $1
	`, column)

	var suggestion models.Suggestion
	err := r.q.QueryRow(ctx, query, value).Scan(
		&suggestion.ID,
		&suggestion.GuildID,
		&suggestion.ChannelID,
		&suggestion.MessageID,
		&suggestion.AuthorID,
		&suggestion.Content,
		&suggestion.Status,
		&suggestion.Upvotes,
		&suggestion.Downvotes,
		&suggestion.ExpiresAt,
		&suggestion.ReviewedAt,
		&suggestion.ReviewedBy,
		&suggestion.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get suggestion by %s %d: %w", column, value, err)
	}

	return &suggestion, nil
}

// UpdateVoteCounts overwrites the up/downvote snapshots
func (r *SuggestionRepository) UpdateVoteCounts(ctx context.Context, id int64, upvotes, downvotes int) error {
	query := `UPDATE suggestions SET upvotes = $2, downvotes = $3 WHERE id = $1`

	tag, err := r.q.Exec(ctx, query, id, upvotes, downvotes)
	if err != nil {
		return fmt.Errorf("failed to update vote counts for suggestion %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("suggestion %d not found", id)
	}

	return nil
}

// Resolve performs the guarded terminal transition. The WHERE clause only
// matches while the suggestion is still pending, so of any number of
// concurrent resolution attempts exactly one observes RowsAffected() == 1.
func (r *SuggestionRepository) Resolve(ctx context.Context, id int64, status models.SuggestionStatus, reviewedBy string, reviewedAt time.Time) (bool, error) {
	query := `
		UPDATE suggestions
		SET status = $2, reviewed_by = $3, reviewed_at = $4
		WHERE id = $1 AND status = 'pending'
	`

	tag, err := r.q.Exec(ctx, query, id, status, reviewedBy, reviewedAt)
	if err != nil {
		return false, fmt.Errorf("failed to resolve suggestion %d: %w", id, err)
	}

	return tag.RowsAffected() == 1, nil
}

// ListExpiredPending returns pending suggestions whose expiry has passed
func (r *SuggestionRepository) ListExpiredPending(ctx context.Context, now time.Time) ([]*models.Suggestion, error) {
	query := `
		SELECT id, guild_id, channel_id, message_id, author_id, content, status,
		       upvotes, downvotes, expires_at, reviewed_at, reviewed_by, created_at
		FROM suggestions
		WHERE status = 'pending' AND expires_at <= $1
		ORDER BY expires_at ASC
	`

	rows, err := r.q.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired suggestions: %w", err)
	}
	defer rows.Close()

	var suggestions []*models.Suggestion
	for rows.Next() {
		var suggestion models.Suggestion
		err := rows.Scan(
			&suggestion.ID,
			&suggestion.GuildID,
			&suggestion.ChannelID,
			&suggestion.MessageID,
			&suggestion.AuthorID,
			&suggestion.Content,
			&suggestion.Status,
			&suggestion.Upvotes,
			&suggestion.Downvotes,
			&suggestion.ExpiresAt,
			&suggestion.ReviewedAt,
			&suggestion.ReviewedBy,
			&suggestion.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan suggestion: %w", err)
		}
		suggestions = append(suggestions, &suggestion)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate suggestions: %w", err)
	}

	return suggestions, nil
}
