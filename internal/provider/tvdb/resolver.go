package tvdb

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Digital-Shane/scenename/internal/provider"
	tvdbapi "github.com/dashotv/tvdb"
	"github.com/dashotv/tvdb/openapi/models/operations"
	"github.com/dashotv/tvdb/openapi/models/shared"
)

const providerName = "tvdb"

// TVDBClient captures the dashotv client methods used by the resolver.
type TVDBClient interface {
	GetSearchResults(request operations.GetSearchResultsRequest) (*tvdbapi.GetSearchResultsResponse, error)
}

// Resolver looks up the TVDB id of a series.
type Resolver struct {
	client TVDBClient
}

// New logs in to TVDB with the given API key.
func New(apiKey string) (*Resolver, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%s: api_key is required", providerName)
	}

	client, err := tvdbapi.Login(apiKey)
	if err != nil {
		return nil, mapError(err)
	}
	return NewWithClient(client), nil
}

// NewWithClient creates a resolver around an existing client.
func NewWithClient(client TVDBClient) *Resolver {
	return &Resolver{client: client}
}

func (r *Resolver) Name() string {
	return providerName
}

func (r *Resolver) Capabilities() provider.ProviderCapabilities {
	return provider.ProviderCapabilities{
		MediaTypes:   []provider.MediaType{provider.MediaTypeEpisode},
		RequiresAuth: true,
		Priority:     95,
	}
}

// ResolveIDs searches TVDB for the episode's series and returns its id.
func (r *Resolver) ResolveIDs(ctx context.Context, video *provider.Video) (provider.Identifiers, error) {
	if video.MediaType != provider.MediaTypeEpisode {
		return provider.Identifiers{}, provider.ErrUnsupportedMediaType
	}
	if err := ctx.Err(); err != nil {
		return provider.Identifiers{}, err
	}

	record, err := r.searchSeries(video.Series, video.Year)
	if err != nil {
		return provider.Identifiers{}, err
	}
	return provider.Identifiers{TVDBID: int(record.ID)}, nil
}

type searchRecord struct {
	ID   int64
	Name string
	Year string
}

func (r *Resolver) searchSeries(name, year string) (*searchRecord, error) {
	query := strings.TrimSpace(name)
	if query == "" {
		return nil, &provider.ProviderError{Provider: providerName, Code: provider.CodeInvalidRequest, Message: "series lookup requires a title"}
	}

	req := operations.GetSearchResultsRequest{Query: &query}
	typeSeries := "series"
	req.Type = &typeSeries
	if yr, err := strconv.Atoi(strings.TrimSpace(year)); err == nil {
		yf := float64(yr)
		req.Year = &yf
	}

	resp, err := r.client.GetSearchResults(req)
	if err != nil {
		return nil, mapError(err)
	}
	if resp == nil || len(resp.Data) == 0 {
		return nil, &provider.ProviderError{Provider: providerName, Code: provider.CodeNotFound, Message: fmt.Sprintf("no results found for show: %s", query)}
	}

	for _, candidate := range resp.Data {
		rec := toSearchRecord(candidate)
		if rec.ID == 0 {
			continue
		}
		if strings.EqualFold(pointerToString(candidate.Type), "series") {
			return rec, nil
		}
	}

	return nil, &provider.ProviderError{Provider: providerName, Code: provider.CodeNotFound, Message: "series not found"}
}

func toSearchRecord(result shared.SearchResult) *searchRecord {
	id := parseInt64(pointerToString(result.TvdbID))
	if id == 0 {
		// Search ids are sometimes prefixed with the record type, as in "series-81189"
		raw := pointerToString(result.ID)
		if idx := strings.LastIndex(raw, "-"); idx >= 0 {
			raw = raw[idx+1:]
		}
		id = parseInt64(raw)
	}

	name := firstNonEmptyString(pointerToString(result.Name), pointerToString(result.NameTranslated), pointerToString(result.Title))
	return &searchRecord{ID: id, Name: name, Year: pointerToString(result.Year)}
}

func pointerToString(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}

func parseInt64(value string) int64 {
	parsed, _ := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	return parsed
}

func firstNonEmptyString(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "401"), strings.Contains(lower, "unauthorized"), strings.Contains(lower, "apikey"):
		return &provider.ProviderError{Provider: providerName, Code: provider.CodeAuthFailed, Message: "TVDB authentication failed: " + msg}
	case strings.Contains(lower, "429"), strings.Contains(lower, "too many"):
		return &provider.ProviderError{Provider: providerName, Code: provider.CodeRateLimited, Message: msg, Retry: true, RetryAfter: 5}
	case strings.Contains(lower, "404"), strings.Contains(lower, "not found"):
		return &provider.ProviderError{Provider: providerName, Code: provider.CodeNotFound, Message: msg}
	case strings.Contains(lower, "503"), strings.Contains(lower, "unavailable"):
		return &provider.ProviderError{Provider: providerName, Code: provider.CodeUnavailable, Message: msg, Retry: true, RetryAfter: 30}
	default:
		return &provider.ProviderError{Provider: providerName, Code: provider.CodeUnknown, Message: msg}
	}
}
