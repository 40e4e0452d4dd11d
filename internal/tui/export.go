package tui

import (
	"context"

	"github.com/Digital-Shane/scenename/internal/refiner"
	"github.com/Digital-Shane/scenename/internal/tui/progress"
	"github.com/Digital-Shane/scenename/internal/tui/theme"
)

// Type aliases so callers only need the tui package.
type (
	IndexProgressModel  = progress.IndexProgressModel
	IndexConfig         = progress.IndexConfig
	RefineProgressModel = progress.RefineProgressModel
)

// NewIndexProgressModel constructs the library scan progress UI model.
func NewIndexProgressModel(path string, cfg progress.IndexConfig, th theme.Theme) *progress.IndexProgressModel {
	return progress.NewIndexProgressModel(path, cfg, th)
}

// NewRefineProgressModel constructs the refinement progress UI model.
func NewRefineProgressModel(ctx context.Context, engine *refiner.Engine, th theme.Theme) *progress.RefineProgressModel {
	return progress.NewRefineProgressModel(ctx, engine, th)
}
