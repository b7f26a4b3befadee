package visible

import (
	"context"

	"github.com/hashfeed/hashfeed/pkg/config"
	"go.uber.org/fx"
)

var Module = fx.Module("visible_store",
	fx.Provide(
		func(lc fx.Lifecycle, cfg *config.Config) (*Bolt, error) {
			store, err := NewBolt(cfg.Curation.StorePath)
			if err != nil {
				return nil, err
			}
			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					return store.Close()
				},
			})
			return store, nil
		},
		fx.Annotate(
			func(store *Bolt) Store {
				return store
			},
			fx.As(new(Store)),
		),
	),
)
