package refiner

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Digital-Shane/scenename/internal/provider"
	"github.com/Digital-Shane/scenename/internal/provider/local"
	"github.com/Digital-Shane/scenename/internal/provider/radarr"
	"github.com/google/go-cmp/cmp"
)

// fakeProvider serves canned AdditionalData and uses the real filename heuristic.
type fakeProvider struct {
	name  string
	types []provider.MediaType
	data  func(*provider.Video) (*provider.AdditionalData, error)
	calls int
}

func (f *fakeProvider) Name() string        { return f.name }
func (f *fakeProvider) Description() string { return "fake" }
func (f *fakeProvider) Capabilities() provider.ProviderCapabilities {
	return provider.ProviderCapabilities{MediaTypes: f.types}
}
func (f *fakeProvider) Configure(map[string]interface{}) error { return nil }
func (f *fakeProvider) ConfigSchema() provider.ConfigSchema    { return provider.ConfigSchema{} }
func (f *fakeProvider) AdditionalData(ctx context.Context, video *provider.Video) (*provider.AdditionalData, error) {
	f.calls++
	if f.data == nil {
		return nil, nil
	}
	return f.data(video)
}
func (f *fakeProvider) Guess(video *provider.Video, sceneName string) (string, provider.Guess) {
	return local.GuessSceneName(video, sceneName, video.MediaType)
}

func newRegistry(t *testing.T, providers ...*fakeProvider) *provider.Registry {
	t.Helper()
	registry := provider.NewRegistry()
	for _, p := range providers {
		if err := registry.Register(p.name, p, 100); err != nil {
			t.Fatalf("Register(%s) error = %v", p.name, err)
		}
		if err := registry.Enable(p.name); err != nil {
			t.Fatalf("Enable(%s) error = %v", p.name, err)
		}
	}
	return registry
}

type fakeResolver struct {
	name  string
	types []provider.MediaType
	ids   provider.Identifiers
	err   error
	calls int
}

func (f *fakeResolver) Name() string { return f.name }
func (f *fakeResolver) Capabilities() provider.ProviderCapabilities {
	return provider.ProviderCapabilities{MediaTypes: f.types}
}
func (f *fakeResolver) ResolveIDs(ctx context.Context, video *provider.Video) (provider.Identifiers, error) {
	f.calls++
	return f.ids, f.err
}

type fakeProber struct {
	err error
}

func (f *fakeProber) Name() string { return "fake-probe" }
func (f *fakeProber) Probe(ctx context.Context, video *provider.Video) error {
	if f.err != nil {
		return f.err
	}
	video.Resolution = "1080p"
	return nil
}

func TestRefineFillsFromSceneName(t *testing.T) {
	sonarr := &fakeProvider{
		name:  "sonarr",
		types: []provider.MediaType{provider.MediaTypeEpisode},
		data: func(*provider.Video) (*provider.AdditionalData, error) {
			return &provider.AdditionalData{SceneName: "Show.S01E02.1080p.WEB-DL.DDP5.1.H.264-NTb[rartv]"}, nil
		},
	}
	r := New(newRegistry(t, sonarr))

	video := provider.NewEpisode("/tv/Show/Season 1/Show - 1x02.mkv", "Show", 1, 2)
	video.ReleaseGroup = "local"
	video.Format = "HDTV"

	result, err := r.Refine(context.Background(), video)
	if err != nil {
		t.Fatalf("Refine() error = %v", err)
	}

	want := &Result{
		Provider:     "sonarr",
		SceneName:    "Show.S01E02.1080p.WEB-DL.DDP5.1.H.264-NTb[rartv]",
		OriginalName: "Show.S01E02.1080p.WEB-DL.DDP5.1.H.264-NTb.mkv",
		Filled:       []string{"release_group", "format"},
	}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Errorf("Refine() mismatch (-want +got):\n%s", diff)
	}
	if video.ReleaseGroup != "NTb" {
		t.Errorf("ReleaseGroup = %q, want NTb (guess overrides existing)", video.ReleaseGroup)
	}
	guess := local.GuessFilename(want.OriginalName, provider.MediaTypeEpisode)
	if video.Format != guess.Format || video.Format == "HDTV" {
		t.Errorf("Format = %q, want %q from the scene name", video.Format, guess.Format)
	}
	if video.OriginalName != want.OriginalName {
		t.Errorf("OriginalName = %q, want %q", video.OriginalName, want.OriginalName)
	}
	if !result.Refined() {
		t.Error("Refined() = false, want true")
	}
}

func TestRefineReleaseGroupOnlyWhenEmpty(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		group    string
		want     string
		filled   []string
	}{
		{name: "empty is filled", group: "SPARKS", want: "SPARKS", filled: []string{"release_group"}},
		{name: "cleaned", group: "SPARKS[rarbg]", want: "SPARKS", filled: []string{"release_group"}},
		{name: "existing kept", existing: "LOCAL", group: "SPARKS", want: "LOCAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			radarr := &fakeProvider{
				name:  "radarr",
				types: []provider.MediaType{provider.MediaTypeMovie},
				data: func(*provider.Video) (*provider.AdditionalData, error) {
					return &provider.AdditionalData{ReleaseGroup: tt.group}, nil
				},
			}
			video := provider.NewMovie("/m/Ronin.mkv", "Ronin", "1998")
			video.ReleaseGroup = tt.existing

			result, err := New(newRegistry(t, radarr)).Refine(context.Background(), video)
			if err != nil {
				t.Fatalf("Refine() error = %v", err)
			}
			if video.ReleaseGroup != tt.want {
				t.Errorf("ReleaseGroup = %q, want %q", video.ReleaseGroup, tt.want)
			}
			if diff := cmp.Diff(tt.filled, result.Filled); diff != "" {
				t.Errorf("Filled mismatch (-want +got):\n%s", diff)
			}
			if video.OriginalName != "" {
				t.Errorf("OriginalName = %q, want empty without scene name", video.OriginalName)
			}
		})
	}
}

func TestRefineNothingToAdd(t *testing.T) {
	radarr := &fakeProvider{name: "radarr", types: []provider.MediaType{provider.MediaTypeMovie}}
	video := provider.NewMovie("/m/a.mkv", "A", "")

	result, err := New(newRegistry(t, radarr)).Refine(context.Background(), video)
	if err != nil {
		t.Fatalf("Refine() error = %v", err)
	}
	if diff := cmp.Diff(&Result{Provider: "radarr"}, result); diff != "" {
		t.Errorf("Refine() mismatch (-want +got):\n%s", diff)
	}
	if result.Refined() {
		t.Error("Refined() = true, want false")
	}
}

func TestRefineDispatchesByMediaType(t *testing.T) {
	sonarr := &fakeProvider{name: "sonarr", types: []provider.MediaType{provider.MediaTypeEpisode}}
	radarr := &fakeProvider{name: "radarr", types: []provider.MediaType{provider.MediaTypeMovie}}
	r := New(newRegistry(t, sonarr, radarr))

	if _, err := r.Refine(context.Background(), provider.NewMovie("/m/a.mkv", "A", "")); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Refine(context.Background(), provider.NewEpisode("/tv/a.mkv", "A", 1, 1)); err != nil {
		t.Fatal(err)
	}
	if sonarr.calls != 1 || radarr.calls != 1 {
		t.Errorf("calls sonarr=%d radarr=%d, want 1 each", sonarr.calls, radarr.calls)
	}

	_, err := r.Refine(context.Background(), &provider.Video{Name: "/x/a.mp3", MediaType: "audio"})
	if !errors.Is(err, provider.ErrUnsupportedMediaType) {
		t.Errorf("Refine(audio) error = %v, want ErrUnsupportedMediaType", err)
	}
}

func TestRefineBackendError(t *testing.T) {
	boom := &provider.ProviderError{Provider: "radarr", Code: provider.CodeUnavailable, Message: "down"}
	radarr := &fakeProvider{
		name:  "radarr",
		types: []provider.MediaType{provider.MediaTypeMovie},
		data:  func(*provider.Video) (*provider.AdditionalData, error) { return nil, boom },
	}

	result, err := New(newRegistry(t, radarr)).Refine(context.Background(), provider.NewMovie("/m/a.mkv", "A", ""))
	if !provider.IsCode(err, provider.CodeUnavailable) {
		t.Fatalf("Refine() error = %v, want UNAVAILABLE", err)
	}
	if result == nil || result.Provider != "radarr" {
		t.Errorf("Refine() result = %+v, want provider recorded", result)
	}
}

func TestRefineResolversAndProbers(t *testing.T) {
	var seen provider.Video
	sonarr := &fakeProvider{
		name:  "sonarr",
		types: []provider.MediaType{provider.MediaTypeEpisode},
		data: func(v *provider.Video) (*provider.AdditionalData, error) {
			seen = *v
			return nil, nil
		},
	}
	failing := &fakeResolver{name: "broken", types: []provider.MediaType{provider.MediaTypeEpisode}, err: errors.New("timeout")}
	movieOnly := &fakeResolver{name: "tmdb", types: []provider.MediaType{provider.MediaTypeMovie}, ids: provider.Identifiers{IMDBID: "tt1"}}
	tvdb := &fakeResolver{name: "tvdb", types: []provider.MediaType{provider.MediaTypeEpisode}, ids: provider.Identifiers{TVDBID: 81189}}
	extra := &fakeResolver{name: "extra", types: []provider.MediaType{provider.MediaTypeEpisode}, ids: provider.Identifiers{TVDBID: 1}}

	r := New(newRegistry(t, sonarr),
		WithResolvers(failing, movieOnly, tvdb, extra),
		WithProbers(&fakeProber{err: errors.New("no ffprobe")}, &fakeProber{}),
	)

	if _, err := r.Refine(context.Background(), provider.NewEpisode("/tv/bb.mkv", "Breaking Bad", 1, 1)); err != nil {
		t.Fatalf("Refine() error = %v", err)
	}
	if seen.SeriesTVDBID != 81189 {
		t.Errorf("SeriesTVDBID = %d, want 81189", seen.SeriesTVDBID)
	}
	if seen.Resolution != "1080p" {
		t.Errorf("Resolution = %q, want 1080p from prober", seen.Resolution)
	}
	if movieOnly.calls != 0 {
		t.Errorf("movie resolver called %d times for an episode", movieOnly.calls)
	}
	if extra.calls != 0 {
		t.Errorf("resolver after a successful lookup called %d times", extra.calls)
	}

	// Known ids skip resolution
	tvdb.calls = 0
	known := provider.NewEpisode("/tv/bb.mkv", "Breaking Bad", 1, 1)
	known.SeriesTVDBID = 5
	if _, err := r.Refine(context.Background(), known); err != nil {
		t.Fatal(err)
	}
	if tvdb.calls != 0 {
		t.Errorf("resolver called %d times for a video with an id", tvdb.calls)
	}
}

func TestRefineCanceledDuringResolve(t *testing.T) {
	sonarr := &fakeProvider{name: "sonarr", types: []provider.MediaType{provider.MediaTypeEpisode}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resolver := &fakeResolver{name: "tvdb", types: []provider.MediaType{provider.MediaTypeEpisode}, err: context.Canceled}
	_, err := New(newRegistry(t, sonarr), WithResolvers(resolver)).Refine(ctx, provider.NewEpisode("/tv/a.mkv", "A", 1, 1))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Refine() error = %v, want context.Canceled", err)
	}
	if sonarr.calls != 0 {
		t.Errorf("backend called after cancellation")
	}
}

func TestRefineWithRadarrBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/movie" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`[{"id":1,"title":"Heat","imdbId":"tt0113277","movieFile":{"relativePath":"Heat.mkv","sceneName":"Heat.1995.1080p.BluRay.x264-AMIABLE","releaseGroup":"AMIABLE"}}]`))
	}))
	defer srv.Close()

	backend := radarr.New()
	registry := provider.NewRegistry()
	if err := registry.Register("radarr", backend, 100); err != nil {
		t.Fatal(err)
	}
	if err := registry.Configure("radarr", map[string]interface{}{"base_url": srv.URL, "api_key": "k"}); err != nil {
		t.Fatal(err)
	}
	if err := registry.Enable("radarr"); err != nil {
		t.Fatal(err)
	}

	video := provider.NewMovie("/movies/Heat.mkv", "Heat", "1995")
	result, err := New(registry).Refine(context.Background(), video)
	if err != nil {
		t.Fatalf("Refine() error = %v", err)
	}
	if result.OriginalName != "Heat.1995.1080p.BluRay.x264-AMIABLE.mkv" {
		t.Errorf("OriginalName = %q", result.OriginalName)
	}
	if video.ReleaseGroup != "AMIABLE" {
		t.Errorf("ReleaseGroup = %q, want AMIABLE", video.ReleaseGroup)
	}
	if video.Format == "" {
		t.Error("Format is empty, want the scene name source")
	}
}

func TestRefineNilVideo(t *testing.T) {
	if _, err := New(provider.NewRegistry()).Refine(context.Background(), nil); err == nil {
		t.Error("Refine(nil) expected error")
	}
}
