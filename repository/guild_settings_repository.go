package repository

import (
	"context"
	"fmt"

	"curator/database"
	"curator/models"
)

// GuildSettingsRepository implements guild settings data access
type GuildSettingsRepository struct {
	q queryable
}

// NewGuildSettingsRepository creates a new guild settings repository
func NewGuildSettingsRepository(db *database.DB) *GuildSettingsRepository {
	return &GuildSettingsRepository{q: db.Pool}
}

// newGuildSettingsRepositoryWithTx creates a new guild settings repository with a transaction
func newGuildSettingsRepositoryWithTx(tx queryable) *GuildSettingsRepository {
	return &GuildSettingsRepository{q: tx}
}

// GetOrCreate retrieves guild settings, creating a row seeded with the
// given default expiry window if the guild has none yet. An existing row
// keeps its own expiry value.
func (r *GuildSettingsRepository) GetOrCreate(ctx context.Context, guildID int64, defaultExpiryDays int) (*models.GuildSettings, error) {
	query := `
		INSERT INTO guild_settings (guild_id, suggestion_expiry_days)
		VALUES ($1, $2)
		ON CONFLICT (guild_id) DO UPDATE SET guild_id = EXCLUDED.guild_id
		RETURNING guild_id, suggestion_channel_id, approve_threshold, deny_threshold,
		          suggestion_expiry_days, created_at, updated_at
	`

	var settings models.GuildSettings
	err := r.q.QueryRow(ctx, query, guildID, defaultExpiryDays).Scan(
		&settings.GuildID,
		&settings.SuggestionChannelID,
		&settings.ApproveThreshold,
		&settings.DenyThreshold,
		&settings.SuggestionExpiryDays,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create settings for guild %d: %w", guildID, err)
	}

	return &settings, nil
}

// Update updates guild settings
func (r *GuildSettingsRepository) Update(ctx context.Context, settings *models.GuildSettings) error {
	query := `
		UPDATE guild_settings
		SET suggestion_channel_id = $2,
		    approve_threshold = $3,
		    deny_threshold = $4,
		    suggestion_expiry_days = $5,
		    updated_at = CURRENT_TIMESTAMP
		WHERE guild_id = $1
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query,
		settings.GuildID,
		settings.SuggestionChannelID,
		settings.ApproveThreshold,
		settings.DenyThreshold,
		settings.SuggestionExpiryDays,
	).Scan(&settings.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update settings for guild %d: %w", settings.GuildID, err)
	}

	return nil
}
