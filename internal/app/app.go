package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"go.uber.org/fx"

	"github.com/hashfeed/hashfeed/internal/alert"
	"github.com/hashfeed/hashfeed/internal/alert/alertimpl"
	"github.com/hashfeed/hashfeed/internal/cache"
	"github.com/hashfeed/hashfeed/internal/feed"
	"github.com/hashfeed/hashfeed/internal/feed/feedimpl"
	"github.com/hashfeed/hashfeed/internal/gate"
	"github.com/hashfeed/hashfeed/internal/graph"
	"github.com/hashfeed/hashfeed/internal/graph/graphimpl"
	_ "github.com/hashfeed/hashfeed/internal/migrations"
	"github.com/hashfeed/hashfeed/internal/pgx"
	"github.com/hashfeed/hashfeed/internal/refresher"
	"github.com/hashfeed/hashfeed/internal/refresher/refresherimpl"
	repositories "github.com/hashfeed/hashfeed/internal/repositories/fx"
	"github.com/hashfeed/hashfeed/internal/resolver"
	"github.com/hashfeed/hashfeed/internal/resolver/resolverimpl"
	"github.com/hashfeed/hashfeed/internal/scanner"
	"github.com/hashfeed/hashfeed/internal/scanner/scannerimpl"
	"github.com/hashfeed/hashfeed/internal/visible"
	"github.com/hashfeed/hashfeed/pkg/config"
	"github.com/hashfeed/hashfeed/pkg/logger"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		pgx.New,
		cache.NewResultCache,
		cache.NewTagIDCache,
		func() *cache.FreshnessCache {
			return cache.NewFreshnessCache(0)
		},
		func(cfg *config.Config) *gate.Gate {
			return gate.New(cfg.Limits.MaxConcurrentCalls)
		},
	),
	fx.Provide(
		fx.Annotate(
			graphimpl.New,
			fx.As(new(graph.Client)),
		), fx.Annotate(
			feedimpl.New,
			fx.As(new(feed.Client)),
		), fx.Annotate(
			resolverimpl.New,
			fx.As(new(resolver.Client)),
		), fx.Annotate(
			scannerimpl.New,
			fx.As(new(scanner.Client)),
		), fx.Annotate(
			alertimpl.New,
			fx.As(new(alert.Client)),
		), fx.Annotate(
			refresherimpl.New,
			fx.As(new(refresher.Client)),
		),
	),
	repositories.Module,
	visible.Module,
	fx.Invoke(
		func(c *config.Config) error {
			if err := goose.SetDialect("postgres"); err != nil {
				return err
			}

			db, err := sql.Open("postgres", c.GetDSN())
			if err != nil {
				return err
			}
			defer db.Close()

			wd, err := os.Getwd()
			if err != nil {
				return err
			}

			return goose.Up(db, filepath.Join(wd, "migrations"))
		}),
	fx.Invoke(run),
)

func run(lc fx.Lifecycle, log logger.Logger, cfg *config.Config, alerter alert.Client, rClient refresher.Client) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go startHttpServer(log, cfg)

			if cfg.Graph.AccessToken == "" || cfg.Graph.UserID == "" {
				log.Warn("Graph credentials missing, serving empty content until configured")
				alerter.Notify("Graph credentials missing: the feed will stay empty until configured")
			}

			if err := rClient.ScheduleRefresh(ctx); err != nil {
				log.Error("Failed to schedule visible refresh", "error", err)
				alerter.Notify("Failed to schedule visible refresh: " + err.Error())
			}

			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func startHttpServer(log logger.Logger, cfg *config.Config) {
	http.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		healthCheckHandler(w, r, log)
	})

	log.Info(fmt.Sprintf("Starting server on :%d", cfg.App.Port))

	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.App.Port), nil); err != nil {
		log.Error("Server failed to start: %v", err)
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request, logger logger.Logger) {
	logger.Info("Health check request received", "Method", r.Method, "URL", r.URL.String())
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("ok")); err != nil {
		logger.Error("Failed to write response", "Error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
