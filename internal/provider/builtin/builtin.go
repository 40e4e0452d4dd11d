// Package builtin wires the built-in backends, resolvers and probers from
// configuration. It lives apart from provider to avoid import cycles.
package builtin

import (
	"fmt"
	"sort"

	"github.com/Digital-Shane/scenename/internal/config"
	"github.com/Digital-Shane/scenename/internal/provider"
	"github.com/Digital-Shane/scenename/internal/provider/ffprobe"
	"github.com/Digital-Shane/scenename/internal/provider/omdb"
	"github.com/Digital-Shane/scenename/internal/provider/radarr"
	"github.com/Digital-Shane/scenename/internal/provider/sonarr"
	"github.com/Digital-Shane/scenename/internal/provider/tmdb"
	"github.com/Digital-Shane/scenename/internal/provider/tvdb"
	"go.uber.org/zap"
)

// Set is everything a refiner needs, built from one configuration.
type Set struct {
	Registry  *provider.Registry
	Resolvers []provider.IDResolver
	Probers   []provider.Prober
	Cache     *provider.ListCache
}

// Options adjusts loading beyond what the configuration file says.
type Options struct {
	Logger *zap.Logger
	// Probe forces ffprobe on even when the configuration leaves it off.
	Probe bool
}

// Load registers Sonarr and Radarr, enabling the ones the configuration
// enables, and builds the enabled identifier resolvers. A resolver that
// cannot be created is logged and left out.
func Load(cfg *config.Config, opts Options) (*Set, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	set := &Set{Registry: provider.NewRegistry()}

	if cfg.Cache.Enabled {
		set.Cache = provider.NewListCache(cfg.CacheDuration())
		if file, err := cfg.CacheFile(); err == nil {
			set.Cache.WithFile(file)
		}
		if err := set.Cache.Load(); err != nil {
			logger.Warn("Ignoring unreadable cache file", zap.String("file", set.Cache.File()), zap.Error(err))
		}
	}

	sonarrProvider := sonarr.New(sonarr.WithLogger(logger.Named("sonarr")), sonarr.WithCache(set.Cache))
	if err := register(set.Registry, sonarrProvider, cfg.Sonarr); err != nil {
		return nil, err
	}

	radarrProvider := radarr.New(radarr.WithLogger(logger.Named("radarr")), radarr.WithCache(set.Cache))
	if err := register(set.Registry, radarrProvider, cfg.Radarr); err != nil {
		return nil, err
	}

	if cfg.TVDB.Enabled {
		if r, err := tvdb.New(cfg.TVDB.APIKey); err != nil {
			logger.Warn("TVDB lookups disabled", zap.Error(err))
		} else {
			set.Resolvers = append(set.Resolvers, r)
		}
	}
	if cfg.OMDb.Enabled {
		if r, err := omdb.New(cfg.OMDb.APIKey, nil); err != nil {
			logger.Warn("OMDb lookups disabled", zap.Error(err))
		} else {
			set.Resolvers = append(set.Resolvers, r)
		}
	}
	if cfg.TMDB.Enabled {
		if r, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.Language); err != nil {
			logger.Warn("TMDB lookups disabled", zap.Error(err))
		} else {
			set.Resolvers = append(set.Resolvers, r)
		}
	}
	sort.SliceStable(set.Resolvers, func(i, j int) bool {
		return set.Resolvers[i].Capabilities().Priority > set.Resolvers[j].Capabilities().Priority
	})

	if cfg.EnableFFProbe || opts.Probe {
		set.Probers = append(set.Probers, ffprobe.New())
	}

	return set, nil
}

func register(registry *provider.Registry, p provider.Provider, cfg config.ArrConfig) error {
	name := p.Name()
	if err := registry.Register(name, p, p.Capabilities().Priority); err != nil {
		return fmt.Errorf("failed to register %s provider: %w", name, err)
	}
	if !cfg.Enabled {
		return nil
	}
	if err := registry.Configure(name, cfg.ProviderConfig()); err != nil {
		return err
	}
	if err := registry.Enable(name); err != nil {
		return fmt.Errorf("failed to enable %s provider: %w", name, err)
	}
	return nil
}

// SaveCache persists the list cache when one is configured.
func (s *Set) SaveCache() error {
	if s == nil || s.Cache == nil {
		return nil
	}
	return s.Cache.Save()
}
