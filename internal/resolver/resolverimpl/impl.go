package resolverimpl

import (
	"github.com/hashfeed/hashfeed/internal/cache"
	"github.com/hashfeed/hashfeed/internal/graph"
	"github.com/hashfeed/hashfeed/internal/repositories/mediacache"
	"github.com/hashfeed/hashfeed/internal/resolver"
	"github.com/hashfeed/hashfeed/internal/visible"
	"github.com/hashfeed/hashfeed/pkg/config"
	"github.com/hashfeed/hashfeed/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Graph     graph.Client
	Visible   visible.Store
	MediaRepo mediacache.Repository
	Freshness *cache.FreshnessCache
	Logger    logger.Logger
	Config    *config.Config
}

type ResolverImpl struct {
	Graph     graph.Client
	Visible   visible.Store
	MediaRepo mediacache.Repository
	Freshness *cache.FreshnessCache
	Logger    logger.Logger
	Config    *config.Config
}

func New(opts Opts) *ResolverImpl {
	return &ResolverImpl{
		Graph:     opts.Graph,
		Visible:   opts.Visible,
		MediaRepo: opts.MediaRepo,
		Freshness: opts.Freshness,
		Logger:    opts.Logger.WithComponent("Resolver"),
		Config:    opts.Config,
	}
}

var _ resolver.Client = (*ResolverImpl)(nil)
