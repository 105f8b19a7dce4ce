package service

import (
	"context"
	"testing"

	"curator/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newGuildSettingsServiceFixture() (*MockUnitOfWork, *MockGuildSettingsRepository, GuildSettingsService) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockSettingsRepo := new(MockGuildSettingsRepository)

	mockUoW.SetRepositories(nil, nil, nil, nil, mockSettingsRepo)
	mockFactory.On("Create").Return(mockUoW)

	return mockUoW, mockSettingsRepo, NewGuildSettingsService(mockFactory, 14)
}

func TestGuildSettingsService_GetOrCreateSettings_SeedsConfiguredExpiry(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockSettingsRepo, service := newGuildSettingsServiceFixture()

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	// The configured default travels down to the row creation
	mockSettingsRepo.On("GetOrCreate", ctx, int64(10), 14).Return(&models.GuildSettings{GuildID: 10, SuggestionExpiryDays: 14}, nil)

	settings, err := service.GetOrCreateSettings(ctx, 10)

	require.NoError(t, err)
	assert.Equal(t, 14, settings.SuggestionExpiryDays)
	mockSettingsRepo.AssertExpectations(t)
}

func TestGuildSettingsService_UpdateThresholds(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockSettingsRepo, service := newGuildSettingsServiceFixture()

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockSettingsRepo.On("GetOrCreate", ctx, int64(10), 14).Return(&models.GuildSettings{GuildID: 10}, nil)
	mockSettingsRepo.On("Update", ctx, mock.MatchedBy(func(s *models.GuildSettings) bool {
		return s.ApproveThreshold != nil && *s.ApproveThreshold == 5 && s.DenyThreshold == nil
	})).Return(nil)

	approve := 5
	err := service.UpdateThresholds(ctx, 10, &approve, nil)

	require.NoError(t, err)
	mockSettingsRepo.AssertExpectations(t)
}

func TestGuildSettingsService_UpdateThresholds_RejectsNonPositive(t *testing.T) {
	ctx := context.Background()
	_, mockSettingsRepo, service := newGuildSettingsServiceFixture()

	zero := 0
	assert.Error(t, service.UpdateThresholds(ctx, 10, &zero, nil))
	assert.Error(t, service.UpdateThresholds(ctx, 10, nil, &zero))
	mockSettingsRepo.AssertNotCalled(t, "Update")
}
