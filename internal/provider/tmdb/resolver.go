package tmdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Digital-Shane/scenename/internal/provider"
	"github.com/patrickmn/go-cache"
	"github.com/ryanbradynd05/go-tmdb"
)

const providerName = "tmdb"

// TMDBClient captures the go-tmdb methods used by the resolver.
type TMDBClient interface {
	SearchMovie(name string, options map[string]string) (*tmdb.MovieSearchResults, error)
	GetMovieInfo(id int, options map[string]string) (*tmdb.Movie, error)
}

// Resolver finds IMDb ids for movies through TMDB.
type Resolver struct {
	client      TMDBClient
	cache       *cache.Cache
	language    string
	rateLimiter *rateLimiter
}

// New creates a TMDB resolver. An empty language defaults to en-US.
func New(apiKey, language string) (*Resolver, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%s: api_key is required", providerName)
	}
	client := tmdb.Init(tmdb.Config{APIKey: apiKey})
	return NewWithClient(client, language), nil
}

// NewWithClient creates a resolver around an existing client.
func NewWithClient(client TMDBClient, language string) *Resolver {
	if strings.TrimSpace(language) == "" {
		language = "en-US"
	}
	return &Resolver{
		client:      client,
		cache:       cache.New(24*time.Hour, 10*time.Minute),
		language:    language,
		rateLimiter: newRateLimiter(38, 10*time.Second), // 38 requests per 10 seconds
	}
}

// Name returns the resolver name.
func (r *Resolver) Name() string {
	return providerName
}

// Capabilities returns what this resolver can handle.
func (r *Resolver) Capabilities() provider.ProviderCapabilities {
	return provider.ProviderCapabilities{
		MediaTypes:   []provider.MediaType{provider.MediaTypeMovie},
		RequiresAuth: true,
		Priority:     80,
	}
}

// ResolveIDs searches TMDB for the movie and reads its IMDb id from the details.
func (r *Resolver) ResolveIDs(ctx context.Context, video *provider.Video) (provider.Identifiers, error) {
	if video.MediaType != provider.MediaTypeMovie {
		return provider.Identifiers{}, provider.ErrUnsupportedMediaType
	}
	title := strings.TrimSpace(video.Title)
	if title == "" {
		return provider.Identifiers{}, &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeInvalidRequest,
			Message:  "movie lookup requires a title",
		}
	}

	key := fmt.Sprintf("movie:%s:%s", strings.ToLower(title), video.Year)
	if cached, ok := r.cache.Get(key); ok {
		if ids, ok := cached.(provider.Identifiers); ok {
			return ids, nil
		}
	}

	options := map[string]string{"language": r.language}
	if video.Year != "" {
		options["year"] = video.Year
	}

	if err := r.rateLimiter.wait(ctx); err != nil {
		return provider.Identifiers{}, err
	}
	results, err := r.client.SearchMovie(title, options)
	if err != nil {
		return provider.Identifiers{}, mapError(err)
	}
	if results == nil || len(results.Results) == 0 {
		return provider.Identifiers{}, &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeNotFound,
			Message:  fmt.Sprintf("no results found for movie: %s", title),
		}
	}

	if err := r.rateLimiter.wait(ctx); err != nil {
		return provider.Identifiers{}, err
	}
	movie, err := r.client.GetMovieInfo(results.Results[0].ID, map[string]string{"language": r.language})
	if err != nil {
		return provider.Identifiers{}, mapError(err)
	}

	ids := provider.Identifiers{}
	if movie != nil {
		ids.IMDBID = strings.TrimSpace(movie.ImdbID)
	}
	if ids.IMDBID != "" {
		r.cache.Set(key, ids, cache.DefaultExpiration)
	}
	return ids, nil
}

// mapError maps TMDB errors to provider errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "401"), strings.Contains(errStr, "unauthorized"):
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeAuthFailed,
			Message:  "TMDB authentication failed: " + err.Error(),
		}
	case strings.Contains(errStr, "429"), strings.Contains(errStr, "rate limit"):
		return &provider.ProviderError{
			Provider:   providerName,
			Code:       provider.CodeRateLimited,
			Message:    "TMDB rate limit exceeded",
			Retry:      true,
			RetryAfter: 10,
		}
	case strings.Contains(errStr, "503"), strings.Contains(errStr, "unavailable"):
		return &provider.ProviderError{
			Provider:   providerName,
			Code:       provider.CodeUnavailable,
			Message:    "TMDB service unavailable",
			Retry:      true,
			RetryAfter: 30,
		}
	}

	return &provider.ProviderError{
		Provider: providerName,
		Code:     provider.CodeUnknown,
		Message:  "TMDB error: " + err.Error(),
	}
}
