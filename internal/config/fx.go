package config

import "go.uber.org/fx"

var Module = fx.Module("config",
	fx.Provide(Load),
)

// LetterheadModule provides the hot-reloaded seller profile.
var LetterheadModule = fx.Module("config.letterhead",
	fx.Provide(NewLetterheadHolder),
)
