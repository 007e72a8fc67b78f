package bot

import (
	"fmt"
	"time"

	"github.com/ShinaSIT/Helix-Telebot/internal/cache"
	"github.com/ShinaSIT/Helix-Telebot/internal/config"
	"github.com/ShinaSIT/Helix-Telebot/internal/service"
	"github.com/ShinaSIT/Helix-Telebot/internal/sheets"
	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v3"
)

// Bot is the Telegram front-end. It owns no business logic: every command
// and callback resolves to a service call, and every reply is rendered from
// the service's view models.
type Bot struct {
	tb        *tele.Bot
	cfg       *config.Config
	users     *service.UserService
	scores    *service.ScoreService
	schedules *service.ScheduleService
	mutations *service.MutationService
	store     *cache.Store
	client    *sheets.Client
	logger    zerolog.Logger
}

func New(
	cfg *config.Config,
	users *service.UserService,
	scores *service.ScoreService,
	schedules *service.ScheduleService,
	mutations *service.MutationService,
	store *cache.Store,
	client *sheets.Client,
	logger zerolog.Logger,
) (*Bot, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}

	tb, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			logger.Error().Err(err).Msg("telegram handler error")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	b := &Bot{
		tb:        tb,
		cfg:       cfg,
		users:     users,
		scores:    scores,
		schedules: schedules,
		mutations: mutations,
		store:     store,
		client:    client,
		logger:    logger,
	}
	b.register()
	return b, nil
}

func (b *Bot) register() {
	b.tb.Handle("/start", b.handleStart)
	b.tb.Handle("/help", b.handleHelp)
	b.tb.Handle(tele.OnText, b.handleText)
	b.tb.Handle(tele.OnCallback, b.handleCallback)
}

// Start begins long polling. It blocks until Stop is called.
func (b *Bot) Start() {
	b.logger.Info().Msg("telegram bot polling started")
	b.tb.Start()
}

func (b *Bot) Stop() {
	b.tb.Stop()
	b.logger.Info().Msg("telegram bot stopped")
}
