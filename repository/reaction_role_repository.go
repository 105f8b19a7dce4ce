package repository

import (
	"context"
	"fmt"

	"curator/database"
	"curator/models"

	"github.com/jackc/pgx/v5"
)

// ReactionRoleRepository implements reaction role binding data access
type ReactionRoleRepository struct {
	q queryable
}

// NewReactionRoleRepository creates a new reaction role repository
func NewReactionRoleRepository(db *database.DB) *ReactionRoleRepository {
	return &ReactionRoleRepository{q: db.Pool}
}

// newReactionRoleRepositoryWithTx creates a new reaction role repository with a transaction
func newReactionRoleRepositoryWithTx(tx queryable) *ReactionRoleRepository {
	return &ReactionRoleRepository{q: tx}
}

// Create creates a new binding; the unique index on (message_id, emoji)
// rejects double-binding an emoji on the same message
func (r *ReactionRoleRepository) Create(ctx context.Context, binding *models.ReactionRole) error {
	query := `
		INSERT INTO reaction_roles (guild_id, channel_id, message_id, emoji, role_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		binding.GuildID,
		binding.ChannelID,
		binding.MessageID,
		binding.Emoji,
		binding.RoleID,
	).Scan(&binding.ID, &binding.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create reaction role binding: %w", err)
	}

	return nil
}

// GetByMessageAndEmoji retrieves the binding for a (message, emoji) pair
func (r *ReactionRoleRepository) GetByMessageAndEmoji(ctx context.Context, messageID int64, emoji string) (*models.ReactionRole, error) {
	query := `
		SELECT id, guild_id, channel_id, message_id, emoji, role_id, created_at
		FROM reaction_roles
		WHERE message_id = $1 AND emoji = $2
	`

	var binding models.ReactionRole
	err := r.q.QueryRow(ctx, query, messageID, emoji).Scan(
		&binding.ID,
		&binding.GuildID,
		&binding.ChannelID,
		&binding.MessageID,
		&binding.Emoji,
		&binding.RoleID,
		&binding.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reaction role binding: %w", err)
	}

	return &binding, nil
}

// GetByMessage returns all bindings on a message
func (r *ReactionRoleRepository) GetByMessage(ctx context.Context, messageID int64) ([]*models.ReactionRole, error) {
	query := `
		SELECT id, guild_id, channel_id, message_id, emoji, role_id, created_at
		FROM reaction_roles
		WHERE message_id = $1
		ORDER BY id ASC
	`

	rows, err := r.q.Query(ctx, query, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reaction role bindings for message %d: %w", messageID, err)
	}
	defer rows.Close()

	var bindings []*models.ReactionRole
	for rows.Next() {
		var binding models.ReactionRole
		err := rows.Scan(
			&binding.ID,
			&binding.GuildID,
			&binding.ChannelID,
			&binding.MessageID,
			&binding.Emoji,
			&binding.RoleID,
			&binding.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reaction role binding: %w", err)
		}
		bindings = append(bindings, &binding)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reaction role bindings: %w", err)
	}

	return bindings, nil
}

// ExistsForMessage reports whether any binding claims the message
func (r *ReactionRoleRepository) ExistsForMessage(ctx context.Context, messageID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM reaction_roles WHERE message_id = $1)`

	var exists bool
	if err := r.q.QueryRow(ctx, query, messageID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check reaction role bindings for message %d: %w", messageID, err)
	}

	return exists, nil
}
