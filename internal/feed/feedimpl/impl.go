package feedimpl

import (
	"github.com/hashfeed/hashfeed/internal/cache"
	"github.com/hashfeed/hashfeed/internal/feed"
	"github.com/hashfeed/hashfeed/internal/graph"
	"github.com/hashfeed/hashfeed/pkg/config"
	"github.com/hashfeed/hashfeed/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Graph  graph.Client
	TagIDs *cache.TagIDCache
	Pages  *cache.ResultCache
	Logger logger.Logger
	Config *config.Config
}

type FeedImpl struct {
	Graph  graph.Client
	TagIDs *cache.TagIDCache
	Pages  *cache.ResultCache
	Logger logger.Logger
	Config *config.Config
}

func New(opts Opts) *FeedImpl {
	return &FeedImpl{
		Graph:  opts.Graph,
		TagIDs: opts.TagIDs,
		Pages:  opts.Pages,
		Logger: opts.Logger.WithComponent("Feed"),
		Config: opts.Config,
	}
}

var _ feed.Client = (*FeedImpl)(nil)

func (f *FeedImpl) configured() bool {
	return f.Config.Graph.AccessToken != "" && f.Config.Graph.UserID != ""
}
