// Package refiner enriches video records with the original release name
// recorded by a companion library manager.
package refiner

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/Digital-Shane/scenename/internal/provider"
	"github.com/Digital-Shane/scenename/internal/provider/local"
	"go.uber.org/zap"
)

// guessedAttributes are copied from the scene name guess onto the video.
var guessedAttributes = []string{"release_group", "format"}

// Option customizes a Refiner.
type Option func(*Refiner)

// WithLogger sets the logger used for refinement diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Refiner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithResolvers adds identifier resolvers run before the backend lookup.
func WithResolvers(resolvers ...provider.IDResolver) Option {
	return func(r *Refiner) {
		r.resolvers = append(r.resolvers, resolvers...)
	}
}

// WithProbers adds probers that fill technical attributes from the file.
func WithProbers(probers ...provider.Prober) Option {
	return func(r *Refiner) {
		r.probers = append(r.probers, probers...)
	}
}

// Refiner dispatches videos to the backend for their media type.
type Refiner struct {
	registry  *provider.Registry
	resolvers []provider.IDResolver
	probers   []provider.Prober
	logger    *zap.Logger
}

// New creates a refiner over the enabled providers of registry.
func New(registry *provider.Registry, opts ...Option) *Refiner {
	r := &Refiner{
		registry: registry,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result describes what a refinement changed.
type Result struct {
	Provider     string
	SceneName    string
	OriginalName string
	Filled       []string
}

// Refined reports whether the backend contributed anything.
func (r *Result) Refined() bool {
	return r != nil && (r.SceneName != "" || len(r.Filled) > 0)
}

// Refine looks up the video in the backend for its media type and fills
// release_group, format and original_name from what the backend recorded.
// A backend with nothing to add is not an error.
func (r *Refiner) Refine(ctx context.Context, video *provider.Video) (*Result, error) {
	if video == nil {
		return nil, errors.New("video is required")
	}

	for _, prober := range r.probers {
		if err := prober.Probe(ctx, video); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			r.logger.Warn("Probe failed",
				zap.String("video", video.Name),
				zap.String("prober", prober.Name()),
				zap.Error(err))
		}
	}

	if err := r.resolveIDs(ctx, video); err != nil {
		return nil, err
	}

	p, err := r.registry.ForMediaType(video.MediaType)
	if err != nil {
		return nil, err
	}

	result := &Result{Provider: p.Name()}

	data, err := p.AdditionalData(ctx, video)
	if err != nil {
		return result, fmt.Errorf("%s: %w", p.Name(), err)
	}
	if data == nil {
		return result, nil
	}

	if data.SceneName != "" {
		result.SceneName = data.SceneName
		result.Filled = r.UpdateVideo(p, video, data.SceneName)
		result.OriginalName = video.OriginalName
	}

	if data.ReleaseGroup != "" && video.ReleaseGroup == "" {
		video.ReleaseGroup = local.CleanSceneName(data.ReleaseGroup)
		r.logger.Debug("Filling attribute",
			zap.String("video", video.Name),
			zap.String("attribute", "release_group"),
			zap.String("value", video.ReleaseGroup))
		if !slices.Contains(result.Filled, "release_group") {
			result.Filled = append(result.Filled, "release_group")
		}
	}

	return result, nil
}

// UpdateVideo guesses attributes from sceneName and copies release_group and
// format onto the video, replacing existing values. original_name is always
// set to the name the guess was made from. It returns the attributes filled.
func (r *Refiner) UpdateVideo(p provider.Provider, video *provider.Video, sceneName string) []string {
	guessFrom, guess := p.Guess(video, sceneName)

	var filled []string
	for _, attr := range guessedAttributes {
		value, ok := guess.Get(attr)
		if !ok {
			continue
		}
		r.logger.Debug("Filling attribute",
			zap.String("video", video.Name),
			zap.String("attribute", attr),
			zap.String("value", value))
		if err := video.SetAttr(attr, value); err != nil {
			r.logger.Warn("Cannot set attribute", zap.String("attribute", attr), zap.Error(err))
			continue
		}
		filled = append(filled, attr)
	}

	video.OriginalName = guessFrom
	return filled
}

// resolveIDs fills a missing series TVDB id or movie IMDb id. Resolver
// failures are logged and skipped.
func (r *Refiner) resolveIDs(ctx context.Context, video *provider.Video) error {
	for _, resolver := range r.resolvers {
		if !needsIDs(video) {
			return nil
		}
		if !resolver.Capabilities().Supports(video.MediaType) {
			continue
		}

		ids, err := resolver.ResolveIDs(ctx, video)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			r.logger.Debug("Identifier lookup failed",
				zap.String("video", video.Name),
				zap.String("resolver", resolver.Name()),
				zap.Error(err))
			continue
		}

		if video.SeriesTVDBID == 0 && ids.TVDBID != 0 {
			video.SeriesTVDBID = ids.TVDBID
		}
		if video.IMDBID == "" && ids.IMDBID != "" {
			video.IMDBID = ids.IMDBID
		}
	}
	return nil
}

func needsIDs(video *provider.Video) bool {
	switch video.MediaType {
	case provider.MediaTypeEpisode:
		return video.SeriesTVDBID == 0
	case provider.MediaTypeMovie:
		return video.IMDBID == ""
	default:
		return false
	}
}
