package bot

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"curator/events"
	"curator/service"

	"github.com/bwmarrin/discordgo"
)

// Config holds bot configuration
type Config struct {
	Token         string
	GuildID       string
	SessionTTL    time.Duration
	SweepInterval time.Duration
}

type Bot struct {
	config               Config
	session              *discordgo.Session
	dispatcher           *service.Dispatcher
	pollService          service.PollService
	suggestionService    service.SuggestionService
	giveawayService      service.GiveawayService
	reactionRoleService  service.ReactionRoleService
	guildSettingsService service.GuildSettingsService
	sessions             *service.SessionStore
	eventBus             *events.Bus

	workerCancel context.CancelFunc
}

// New opens the Discord session, registers slash commands and handlers and
// starts the background sweeps. The session is created separately (see
// NewSession) because the services need its gateway before the bot exists.
func New(
	config Config,
	dispatcher *service.Dispatcher,
	pollService service.PollService,
	suggestionService service.SuggestionService,
	giveawayService service.GiveawayService,
	reactionRoleService service.ReactionRoleService,
	guildSettingsService service.GuildSettingsService,
	session *discordgo.Session,
	eventBus *events.Bus,
) (*Bot, error) {
	bot := &Bot{
		config:               config,
		session:              session,
		dispatcher:           dispatcher,
		pollService:          pollService,
		suggestionService:    suggestionService,
		giveawayService:      giveawayService,
		reactionRoleService:  reactionRoleService,
		guildSettingsService: guildSettingsService,
		sessions:             service.NewSessionStore(config.SessionTTL),
		eventBus:             eventBus,
	}

	session.AddHandler(bot.handleCommands)
	session.AddHandler(bot.handleComponentInteraction)
	session.AddHandler(bot.handleReactionAdd)
	session.AddHandler(bot.handleReactionRemove)

	if err := session.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		session.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	bot.subscribeRenderers()

	workerCtx, cancel := context.WithCancel(context.Background())
	bot.workerCancel = cancel
	bot.startWorkers(workerCtx)

	log.Info("Bot connected and commands registered")
	return bot, nil
}

// NewSession creates the Discord session with the intents the engine needs
func NewSession(token string) (*discordgo.Session, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsGuildMembers
	return dg, nil
}

// NewGateway wraps a session in the ChatGateway the services consume
func NewGateway(session *discordgo.Session) service.ChatGateway {
	return newDiscordGateway(session)
}

func (b *Bot) Close() error {
	if b.workerCancel != nil {
		b.workerCancel()
	}
	return b.session.Close()
}
