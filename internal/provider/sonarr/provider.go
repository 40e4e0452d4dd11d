package sonarr

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Digital-Shane/scenename/internal/provider"
	"github.com/Digital-Shane/scenename/internal/provider/arr"
	"github.com/Digital-Shane/scenename/internal/provider/local"
	"go.uber.org/zap"
)

const (
	providerName = "sonarr"

	// DefaultBaseURL is where a local Sonarr listens out of the box.
	DefaultBaseURL = "http://127.0.0.1:8989/"

	// DefaultAPIVersion selects the versioned API root used by current releases.
	DefaultAPIVersion = "v3"

	seriesCacheKey = "sonarr_series"
)

// Option customizes a Provider.
type Option func(*Provider)

// WithLogger sets the logger used for lookup diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithCache sets the cache holding the series list.
func WithCache(cache *provider.ListCache) Option {
	return func(p *Provider) {
		p.cache = cache
	}
}

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) {
		p.httpClient = client
	}
}

// Provider looks up episode files in Sonarr.
type Provider struct {
	client     *arr.Client
	cache      *provider.ListCache
	httpClient *http.Client
	logger     *zap.Logger
	apiVersion string
	config     map[string]interface{}
}

// New creates a new Sonarr provider instance.
func New(opts ...Option) *Provider {
	p := &Provider{
		logger:     zap.NewNop(),
		apiVersion: DefaultAPIVersion,
		config:     make(map[string]interface{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return providerName
}

// Description returns a human readable description of the provider.
func (p *Provider) Description() string {
	return "Sonarr provided scene names for episodes"
}

// Capabilities returns what this provider can handle.
func (p *Provider) Capabilities() provider.ProviderCapabilities {
	return provider.ProviderCapabilities{
		MediaTypes:   []provider.MediaType{provider.MediaTypeEpisode},
		RequiresAuth: true,
		Priority:     100,
	}
}

// ConfigSchema returns the configuration schema for this provider.
func (p *Provider) ConfigSchema() provider.ConfigSchema {
	return arr.ConfigSchema(providerName, DefaultBaseURL)
}

// Configure applies configuration to the provider.
func (p *Provider) Configure(config map[string]interface{}) error {
	opts, err := arr.ParseConfig(config, DefaultBaseURL, DefaultAPIVersion)
	if err != nil {
		return err
	}
	opts.HTTPClient = p.httpClient
	opts.Logger = p.logger

	client, err := arr.New(providerName, opts)
	if err != nil {
		return err
	}

	p.client = client
	p.apiVersion = opts.APIVersion
	p.config = config
	return nil
}

// APIRoot returns the API root requests are sent to, or "" before Configure.
func (p *Provider) APIRoot() string {
	if p.client == nil {
		return ""
	}
	return p.client.APIRoot()
}

func (p *Provider) cacheKey() string {
	return seriesCacheKey + ":" + p.client.APIRoot()
}

func (p *Provider) loadSeries(ctx context.Context) ([]Series, error) {
	var series []Series
	if err := p.client.Get(ctx, "series", nil, &series); err != nil {
		return nil, fmt.Errorf("failed to fetch series: %w", err)
	}
	return series, nil
}

// AllSeries returns every series known to Sonarr, from cache when possible.
func (p *Provider) AllSeries(ctx context.Context) ([]Series, error) {
	if p.client == nil {
		return nil, provider.ErrNotConfigured
	}
	return provider.CachedList(ctx, p.cache, p.cacheKey(), p.loadSeries)
}

// ShowID finds the Sonarr id of the video's series. Zero means not found.
func (p *Provider) ShowID(ctx context.Context, video *provider.Video) (int, error) {
	series, err := p.AllSeries(ctx)
	if err != nil {
		return 0, err
	}
	if id := matchShow(series, video); id != 0 {
		return id, nil
	}

	p.logger.Debug("Show not found, refreshing cache",
		zap.String("video", video.Name),
		zap.String("series", video.Series))

	series, err = provider.RefreshList(ctx, p.cache, p.cacheKey(), p.loadSeries)
	if err != nil {
		return 0, err
	}
	return matchShow(series, video), nil
}

func matchShow(series []Series, video *provider.Video) int {
	for _, s := range series {
		if s.Title == video.Series || (video.SeriesTVDBID != 0 && s.TvdbID == video.SeriesTVDBID) {
			return s.ID
		}
	}
	return 0
}

// AdditionalData returns the scene name Sonarr recorded when importing the
// video's episode. A nil result means Sonarr had nothing to add.
func (p *Provider) AdditionalData(ctx context.Context, video *provider.Video) (*provider.AdditionalData, error) {
	if p.client == nil {
		return nil, provider.ErrNotConfigured
	}

	if video.Series == "" || video.Season == nil || video.Episode == nil {
		p.logger.Debug("Not enough data available for Sonarr", zap.String("video", video.Name))
		return nil, nil
	}

	showID, err := p.ShowID(ctx, video)
	if err != nil {
		return nil, err
	}
	if showID == 0 {
		p.logger.Debug("Show not found in Sonarr",
			zap.String("video", video.Name),
			zap.String("series", video.Series))
		return nil, nil
	}

	params := map[string]any{"series_id": showID}
	if p.apiVersion != "" {
		params["include_episode_file"] = true
	}

	var episodes []Episode
	if err := p.client.Get(ctx, "episode", params, &episodes); err != nil {
		return nil, fmt.Errorf("failed to fetch episodes for series %d: %w", showID, err)
	}

	season, number := *video.Season, *video.Episode
	for _, episode := range episodes {
		if episode.SeasonNumber != season || episode.EpisodeNumber != number {
			continue
		}

		file, err := p.episodeFile(ctx, episode)
		if err != nil {
			return nil, err
		}
		if file != nil && file.SceneName != "" {
			p.logger.Debug("Got original filename from Sonarr",
				zap.String("video", video.Name),
				zap.String("scene_name", file.SceneName))
			return &provider.AdditionalData{
				SceneName:    file.SceneName,
				ReleaseGroup: strings.TrimSpace(file.ReleaseGroup),
			}, nil
		}

		p.logger.Debug("Can't get original filename, sceneName-attribute not set",
			zap.String("video", video.Name))
		return nil, nil
	}

	p.logger.Debug(fmt.Sprintf("Episode not found in Sonarr: S%02dE%02d", season, number),
		zap.String("video", video.Name))
	return nil, nil
}

// episodeFile returns the embedded file of an episode, fetching it by id
// when the listing did not include it.
func (p *Provider) episodeFile(ctx context.Context, episode Episode) (*EpisodeFile, error) {
	if episode.EpisodeFile != nil {
		return episode.EpisodeFile, nil
	}
	if episode.EpisodeFileID == 0 {
		return nil, nil
	}

	var file EpisodeFile
	endpoint := fmt.Sprintf("episodefile/%d", episode.EpisodeFileID)
	if err := p.client.Get(ctx, endpoint, nil, &file); err != nil {
		if provider.IsCode(err, provider.CodeNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch episode file %d: %w", episode.EpisodeFileID, err)
	}
	return &file, nil
}

// Guess parses the scene name as an episode release.
func (p *Provider) Guess(video *provider.Video, sceneName string) (string, provider.Guess) {
	return local.GuessSceneName(video, sceneName, provider.MediaTypeEpisode)
}
