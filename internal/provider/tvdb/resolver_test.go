package tvdb

import (
	"context"
	"errors"
	"testing"

	"github.com/Digital-Shane/scenename/internal/provider"
	tvdbapi "github.com/dashotv/tvdb"
	"github.com/dashotv/tvdb/openapi/models/operations"
	"github.com/dashotv/tvdb/openapi/models/shared"
)

type fakeClient struct {
	results []shared.SearchResult
	err     error
	last    operations.GetSearchResultsRequest
}

func (f *fakeClient) GetSearchResults(request operations.GetSearchResultsRequest) (*tvdbapi.GetSearchResultsResponse, error) {
	f.last = request
	if f.err != nil {
		return nil, f.err
	}
	return &tvdbapi.GetSearchResultsResponse{Data: f.results}, nil
}

func strPtr(s string) *string { return &s }

func TestResolveIDsEpisode(t *testing.T) {
	client := &fakeClient{results: []shared.SearchResult{
		{ID: strPtr("movie-1"), TvdbID: strPtr("1"), Type: strPtr("movie")},
		{ID: strPtr("series-81189"), TvdbID: strPtr("81189"), Name: strPtr("Breaking Bad"), Type: strPtr("series")},
	}}
	r := NewWithClient(client)

	video := provider.NewEpisode("/tv/bb.mkv", "Breaking Bad", 1, 1)
	video.Year = "2008"
	got, err := r.ResolveIDs(context.Background(), video)
	if err != nil {
		t.Fatalf("ResolveIDs() error = %v", err)
	}
	if got.TVDBID != 81189 {
		t.Errorf("TVDBID = %d, want 81189", got.TVDBID)
	}
	if client.last.Query == nil || *client.last.Query != "Breaking Bad" {
		t.Errorf("query = %v, want Breaking Bad", client.last.Query)
	}
	if client.last.Year == nil || *client.last.Year != 2008 {
		t.Errorf("year = %v, want 2008", client.last.Year)
	}
	if client.last.Type == nil || *client.last.Type != "series" {
		t.Errorf("type = %v, want series", client.last.Type)
	}
}

func TestResolveIDsErrors(t *testing.T) {
	tests := []struct {
		name     string
		video    *provider.Video
		client   *fakeClient
		wantCode string
	}{
		{
			name:     "no title",
			video:    provider.NewEpisode("/tv/a.mkv", "", 1, 1),
			client:   &fakeClient{},
			wantCode: provider.CodeInvalidRequest,
		},
		{
			name:     "no results",
			video:    provider.NewEpisode("/tv/a.mkv", "Nope", 1, 1),
			client:   &fakeClient{},
			wantCode: provider.CodeNotFound,
		},
		{
			name:  "only movies",
			video: provider.NewEpisode("/tv/a.mkv", "Heat", 1, 1),
			client: &fakeClient{results: []shared.SearchResult{
				{TvdbID: strPtr("5"), Type: strPtr("movie")},
			}},
			wantCode: provider.CodeNotFound,
		},
		{
			name:     "auth failure",
			video:    provider.NewEpisode("/tv/a.mkv", "Show", 1, 1),
			client:   &fakeClient{err: errors.New("401 Unauthorized")},
			wantCode: provider.CodeAuthFailed,
		},
		{
			name:     "unavailable",
			video:    provider.NewEpisode("/tv/a.mkv", "Show", 1, 1),
			client:   &fakeClient{err: errors.New("503 Service Unavailable")},
			wantCode: provider.CodeUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWithClient(tt.client).ResolveIDs(context.Background(), tt.video)
			if !provider.IsCode(err, tt.wantCode) {
				t.Errorf("ResolveIDs() error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestResolveIDsRejectsMovies(t *testing.T) {
	r := NewWithClient(&fakeClient{})
	_, err := r.ResolveIDs(context.Background(), provider.NewMovie("/m/a.mkv", "Heat", ""))
	if !errors.Is(err, provider.ErrUnsupportedMediaType) {
		t.Errorf("ResolveIDs() error = %v, want ErrUnsupportedMediaType", err)
	}
}

func TestResolveIDsCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewWithClient(&fakeClient{}).ResolveIDs(ctx, provider.NewEpisode("/tv/a.mkv", "Show", 1, 1))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ResolveIDs() error = %v, want context.Canceled", err)
	}
}

func TestToSearchRecordPrefixedID(t *testing.T) {
	rec := toSearchRecord(shared.SearchResult{ID: strPtr("series-121361"), Name: strPtr("Game of Thrones")})
	if rec.ID != 121361 {
		t.Errorf("ID = %d, want 121361", rec.ID)
	}
	if rec.Name != "Game of Thrones" {
		t.Errorf("Name = %q, want Game of Thrones", rec.Name)
	}
}
