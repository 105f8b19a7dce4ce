package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"curator/bot"
	"curator/config"
	"curator/database"
	"curator/events"
	"curator/repository"
	"curator/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting curator bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// The Discord session exists before the services: the poll, suggestion
	// and reaction role services reconcile against its reaction aggregates.
	session, err := bot.NewSession(cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create discord session: %w", err)
	}
	gateway := bot.NewGateway(session)

	// Initialize services
	log.Println("Initializing services...")
	reactionRoleService := service.NewReactionRoleService(uowFactory, gateway)
	pollService := service.NewPollService(uowFactory, gateway)
	suggestionService := service.NewSuggestionService(uowFactory, gateway, cfg.SuggestionExpiryDays)
	giveawayService := service.NewGiveawayService(uowFactory)
	guildSettingsService := service.NewGuildSettingsService(uowFactory, cfg.SuggestionExpiryDays)

	dispatcher := service.NewDispatcher(reactionRoleService, pollService, suggestionService, giveawayService)

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:         cfg.DiscordToken,
		GuildID:       cfg.DiscordGuildID,
		SessionTTL:    cfg.SessionTTL,
		SweepInterval: cfg.SweepInterval,
	}
	discordBot, err := bot.New(botConfig, dispatcher, pollService, suggestionService, giveawayService, reactionRoleService, guildSettingsService, session, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Println("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")

	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
