package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/ShinaSIT/Helix-Telebot/internal/bot"
	"github.com/ShinaSIT/Helix-Telebot/internal/cache"
	"github.com/ShinaSIT/Helix-Telebot/internal/config"
	"github.com/ShinaSIT/Helix-Telebot/internal/constants"
	fxmodules "github.com/ShinaSIT/Helix-Telebot/internal/fx"
	"github.com/ShinaSIT/Helix-Telebot/internal/server"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(run),
	).Run()
}

func run(
	lc fx.Lifecycle,
	b *bot.Bot,
	ops *server.OpsServer,
	store *cache.Store,
	cfg *config.Config,
	db *sql.DB,
	logger zerolog.Logger,
) {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: ops.Handler(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// Pre-warm so the first commands after deploy hit the cache.
			go func() {
				warmCtx, cancel := context.WithTimeout(context.Background(), constants.RequestTimeout)
				defer cancel()

				var daySheets []string
				for _, name := range cfg.DaySheets {
					daySheets = append(daySheets, name)
				}
				store.Warm(warmCtx, daySheets)
			}()

			go func() {
				logger.Info().Str("addr", srv.Addr).Msg("ops server starting")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("ops server failed")
				}
			}()

			go b.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down")
			b.Stop()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("ops server shutdown failed")
				return err
			}

			logger.Info().Msg("stopped gracefully")
			return nil
		},
	})
}
