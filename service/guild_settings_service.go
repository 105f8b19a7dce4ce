package service

import (
	"context"
	"fmt"

	"curator/models"
)

type guildSettingsService struct {
	uowFactory        UnitOfWorkFactory
	defaultExpiryDays int
}

// NewGuildSettingsService creates a new guild settings service. New guilds
// start with defaultExpiryDays as their suggestion expiry window.
func NewGuildSettingsService(uowFactory UnitOfWorkFactory, defaultExpiryDays int) GuildSettingsService {
	return &guildSettingsService{
		uowFactory:        uowFactory,
		defaultExpiryDays: defaultExpiryDays,
	}
}

// GetOrCreateSettings retrieves guild settings or creates default ones
func (s *guildSettingsService) GetOrCreateSettings(ctx context.Context, guildID int64) (*models.GuildSettings, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	settings, err := uow.GuildSettingsRepository().GetOrCreate(ctx, guildID, s.defaultExpiryDays)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return settings, nil
}

// UpdateThresholds updates the auto-resolution thresholds; nil disables a path
func (s *guildSettingsService) UpdateThresholds(ctx context.Context, guildID int64, approve, deny *int) error {
	if approve != nil && *approve <= 0 {
		return fmt.Errorf("approve threshold must be positive")
	}
	if deny != nil && *deny <= 0 {
		return fmt.Errorf("deny threshold must be positive")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	settings, err := uow.GuildSettingsRepository().GetOrCreate(ctx, guildID, s.defaultExpiryDays)
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	settings.ApproveThreshold = approve
	settings.DenyThreshold = deny

	if err := uow.GuildSettingsRepository().Update(ctx, settings); err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// UpdateSuggestionChannel updates the designated suggestion channel
func (s *guildSettingsService) UpdateSuggestionChannel(ctx context.Context, guildID int64, channelID *int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	settings, err := uow.GuildSettingsRepository().GetOrCreate(ctx, guildID, s.defaultExpiryDays)
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	settings.SuggestionChannelID = channelID

	if err := uow.GuildSettingsRepository().Update(ctx, settings); err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
