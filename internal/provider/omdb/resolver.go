package omdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Digital-Shane/omdb"
	"github.com/Digital-Shane/scenename/internal/provider"
)

const providerName = "omdb"

// Resolver looks up IMDb ids for movies through the Open Movie Database.
type Resolver struct {
	client *omdb.Client
}

// New creates an OMDb resolver. A nil httpClient gets a 10 second timeout.
func New(apiKey string, httpClient *http.Client) (*Resolver, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%s: api_key is required", providerName)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Resolver{client: omdb.NewClient(apiKey, httpClient)}, nil
}

func (r *Resolver) Name() string {
	return providerName
}

func (r *Resolver) Capabilities() provider.ProviderCapabilities {
	return provider.ProviderCapabilities{
		MediaTypes:   []provider.MediaType{provider.MediaTypeMovie},
		RequiresAuth: true,
		Priority:     90,
	}
}

// ResolveIDs searches OMDb by title and year.
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
	if err := ctx.Err(); err != nil {
		return provider.Identifiers{}, err
	}

	result, err := r.client.SearchByTitle(omdb.QueryData{
		Title:      title,
		Year:       video.Year,
		SearchType: "movie",
	})
	if err != nil {
		return provider.Identifiers{}, mapError(err)
	}

	var imdbID string
	switch movie := result.(type) {
	case omdb.MovieResult:
		imdbID = movie.ImdbID
	case *omdb.MovieResult:
		if movie != nil {
			imdbID = movie.ImdbID
		}
	}
	if imdbID = strings.TrimSpace(imdbID); imdbID == "" {
		return provider.Identifiers{}, &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeNotFound,
			Message:  "movie not found",
		}
	}
	return provider.Identifiers{IMDBID: imdbID}, nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "invalid api key"), strings.Contains(lower, "missing omdb api key"):
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeAuthFailed,
			Message:  "OMDb authentication failed: " + msg,
		}
	case strings.Contains(lower, "not found"):
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeNotFound,
			Message:  msg,
		}
	case strings.Contains(lower, "limit reached"), strings.Contains(lower, "too many requests"):
		return &provider.ProviderError{
			Provider:   providerName,
			Code:       provider.CodeRateLimited,
			Message:    msg,
			Retry:      true,
			RetryAfter: 5,
		}
	default:
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeUnknown,
			Message:  msg,
		}
	}
}
