package fx

import (
	"github.com/hashfeed/hashfeed/internal/repositories/mediacache"
	"go.uber.org/fx"
)

var Module = fx.Options(
	mediacache.Module,
)
