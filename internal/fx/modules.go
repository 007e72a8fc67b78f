package fx

import (
	"github.com/ShinaSIT/Helix-Telebot/internal/bot"
	"github.com/ShinaSIT/Helix-Telebot/internal/cache"
	"github.com/ShinaSIT/Helix-Telebot/internal/config"
	"github.com/ShinaSIT/Helix-Telebot/internal/database"
	"github.com/ShinaSIT/Helix-Telebot/internal/logger"
	"github.com/ShinaSIT/Helix-Telebot/internal/repository"
	"github.com/ShinaSIT/Helix-Telebot/internal/server"
	"github.com/ShinaSIT/Helix-Telebot/internal/service"
	"github.com/ShinaSIT/Helix-Telebot/internal/sheets"
	"github.com/rs/zerolog"

	"go.uber.org/fx"
)

func ProvideStore(client *sheets.Client, cfg *config.Config, log zerolog.Logger) *cache.Store {
	return cache.NewStore(client, cfg.CacheTTL, nil, log)
}

func ProvideMutationService(client *sheets.Client, store *cache.Store, cfg *config.Config, log zerolog.Logger) *service.MutationService {
	return service.NewMutationService(client, store, cfg, log)
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// remote + cache
	fx.Provide(sheets.NewClient),
	fx.Provide(ProvideStore),
	// repos
	fx.Provide(repository.NewUserRepository),
	// svc
	fx.Provide(service.NewUserService),
	fx.Provide(service.NewScoreService),
	fx.Provide(service.NewScheduleService),
	fx.Provide(ProvideMutationService),
	// surfaces
	fx.Provide(server.NewOpsServer),
	fx.Provide(bot.New),
)
