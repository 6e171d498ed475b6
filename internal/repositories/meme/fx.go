package meme

import (
	"go.uber.org/fx"
)

var Module = fx.Module("meme_repository",
	fx.Provide(
		fx.Annotate(
			NewPgx,
			fx.As(new(Repository)),
		),
	),
)
