package fx

import (
	"github.com/orgball2608/meme-trend-bot/internal/repositories/meme"
	"go.uber.org/fx"
)

var Module = fx.Options(
	meme.Module,
)
