package radarr

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
	providerName      = "radarr"
	DefaultBaseURL    = "http://127.0.0.1:7878/"
	DefaultAPIVersion = "v3"
	moviesCacheKey    = "radarr_movies"
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

// WithCache sets the cache holding the movie list.
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

// Provider looks up movie files in Radarr.
type Provider struct {
	client     *arr.Client
	cache      *provider.ListCache
	httpClient *http.Client
	logger     *zap.Logger
	config     map[string]interface{}
}

// New creates a new Radarr provider instance.
func New(opts ...Option) *Provider {
	p := &Provider{
		logger: zap.NewNop(),
		config: make(map[string]interface{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) Name() string {
	return providerName
}

func (p *Provider) Description() string {
	return "Radarr provided scene names for movies"
}

func (p *Provider) Capabilities() provider.ProviderCapabilities {
	return provider.ProviderCapabilities{
		MediaTypes:   []provider.MediaType{provider.MediaTypeMovie},
		RequiresAuth: true,
		Priority:     100,
	}
}

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
	return moviesCacheKey + ":" + p.client.APIRoot()
}

func (p *Provider) loadMovies(ctx context.Context) ([]Movie, error) {
	var movies []Movie
	if err := p.client.Get(ctx, "movie", nil, &movies); err != nil {
		return nil, fmt.Errorf("failed to fetch movies: %w", err)
	}
	return movies, nil
}

// AllMovies returns every movie known to Radarr, from cache when possible.
func (p *Provider) AllMovies(ctx context.Context) ([]Movie, error) {
	if p.client == nil {
		return nil, provider.ErrNotConfigured
	}
	return provider.CachedList(ctx, p.cache, p.cacheKey(), p.loadMovies)
}

// Movie finds the Radarr entry for the video. A nil movie means not found.
func (p *Provider) Movie(ctx context.Context, video *provider.Video) (*Movie, error) {
	movies, err := p.AllMovies(ctx)
	if err != nil {
		return nil, err
	}
	if m := matchMovie(movies, video); m != nil {
		return m, nil
	}

	p.logger.Debug("Movie not found, refreshing cache", zap.String("video", video.Name))

	movies, err = provider.RefreshList(ctx, p.cache, p.cacheKey(), p.loadMovies)
	if err != nil {
		return nil, err
	}
	return matchMovie(movies, video), nil
}

func matchMovie(movies []Movie, video *provider.Video) *Movie {
	base := video.BaseName()
	for i := range movies {
		m := &movies[i]
		if m.Title == video.Title {
			return m
		}
		if video.IMDBID != "" && m.ImdbID == video.IMDBID {
			return m
		}
		if m.MovieFile != nil && m.MovieFile.RelativePath != "" && m.MovieFile.RelativePath == base {
			return m
		}
	}
	return nil
}

// AdditionalData returns the scene name and release group Radarr recorded
// when importing the video's movie.
func (p *Provider) AdditionalData(ctx context.Context, video *provider.Video) (*provider.AdditionalData, error) {
	if p.client == nil {
		return nil, provider.ErrNotConfigured
	}

	if video.Title == "" {
		p.logger.Debug("Not enough data available for Radarr", zap.String("video", video.Name))
		return nil, nil
	}

	movie, err := p.Movie(ctx, video)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		p.logger.Debug("Movie not found", zap.String("video", video.Name))
		return nil, nil
	}

	data := &provider.AdditionalData{}
	if movie.MovieFile == nil {
		return data, nil
	}

	if sceneName := movie.MovieFile.SceneName; sceneName != "" {
		p.logger.Debug("Got original filename from Radarr",
			zap.String("video", video.Name),
			zap.String("scene_name", sceneName))
		data.SceneName = sceneName
	}
	if group := strings.TrimSpace(movie.MovieFile.ReleaseGroup); group != "" {
		p.logger.Debug("Got release group from Radarr",
			zap.String("video", video.Name),
			zap.String("release_group", group))
		data.ReleaseGroup = group
	}

	return data, nil
}

// Guess parses the scene name as a movie release.
func (p *Provider) Guess(video *provider.Video, sceneName string) (string, provider.Guess) {
	return local.GuessSceneName(video, sceneName, provider.MediaTypeMovie)
}
