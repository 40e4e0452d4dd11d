package provider

import (
	"context"
	"errors"
)

// MediaType represents the type of media content
type MediaType string

const (
	MediaTypeMovie   MediaType = "movie"
	MediaTypeEpisode MediaType = "episode"
)

// Error codes carried by ProviderError.
const (
	CodeAuthFailed     = "AUTH_FAILED"
	CodeNotFound       = "NOT_FOUND"
	CodeRateLimited    = "RATE_LIMITED"
	CodeUnavailable    = "UNAVAILABLE"
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeUnknown        = "UNKNOWN"
)

var (
	// ErrUnsupportedMediaType is returned when no enabled provider handles a media type.
	ErrUnsupportedMediaType = errors.New("media type not supported")

	// ErrNotConfigured is returned by providers used before Configure succeeded.
	ErrNotConfigured = errors.New("provider not configured")
)

// Provider is a client for a library-management backend that knows the
// original release name of the files it imported.
type Provider interface {
	// Identification
	Name() string
	Description() string

	// Capability discovery
	Capabilities() ProviderCapabilities

	// Configuration
	Configure(config map[string]interface{}) error
	ConfigSchema() ConfigSchema

	// AdditionalData looks the video up in the backend. A nil result with a
	// nil error means the backend had nothing to add.
	AdditionalData(ctx context.Context, video *Video) (*AdditionalData, error)

	// Guess runs the filename heuristic on the scene name and returns the
	// cleaned name the guess was made from.
	Guess(video *Video, sceneName string) (string, Guess)
}

// IDResolver looks up external identifiers for a partially identified video.
type IDResolver interface {
	Name() string
	Capabilities() ProviderCapabilities
	ResolveIDs(ctx context.Context, video *Video) (Identifiers, error)
}

// Prober inspects the media file itself.
type Prober interface {
	Name() string
	Probe(ctx context.Context, video *Video) error
}

// Identifiers holds external ids found by an IDResolver.
type Identifiers struct {
	TVDBID int
	IMDBID string
}

// AdditionalData is what a backend knows about an imported file.
type AdditionalData struct {
	SceneName    string
	ReleaseGroup string
}

// ProviderCapabilities describes what a provider can do
type ProviderCapabilities struct {
	MediaTypes   []MediaType // What media types are supported
	RequiresAuth bool        // Whether authentication is required
	Priority     int         // Default priority for this provider (higher = preferred)
}

// Supports reports whether mediaType is listed in the capabilities.
func (c ProviderCapabilities) Supports(mediaType MediaType) bool {
	for _, mt := range c.MediaTypes {
		if mt == mediaType {
			return true
		}
	}
	return false
}

// ConfigSchema describes the configuration requirements for a provider
type ConfigSchema struct {
	Fields []ConfigField
}

// ConfigField describes a single configuration field
type ConfigField struct {
	Name        string                 // Field name
	DisplayName string                 // Human-readable name
	Type        ConfigFieldType        // Field type
	Required    bool                   // Whether this field is required
	Default     interface{}            // Default value
	Description string                 // Help text
	Validation  *ConfigFieldValidation // Validation rules
	Sensitive   bool                   // Whether this contains sensitive data (for masking)
}

// ConfigFieldType represents the type of a configuration field
type ConfigFieldType string

const (
	ConfigFieldTypeString   ConfigFieldType = "string"
	ConfigFieldTypeInt      ConfigFieldType = "int"
	ConfigFieldTypeBool     ConfigFieldType = "bool"
	ConfigFieldTypeSelect   ConfigFieldType = "select"
	ConfigFieldTypePassword ConfigFieldType = "password"
)

// ConfigFieldValidation contains validation rules for a field
type ConfigFieldValidation struct {
	MinLength int                 // Minimum string length
	MaxLength int                 // Maximum string length
	Pattern   string              // Regex pattern
	MinValue  int                 // Minimum numeric value
	MaxValue  int                 // Maximum numeric value
	Options   []ConfigFieldOption // For select fields
}

// ConfigFieldOption represents an option for select fields
type ConfigFieldOption struct {
	Value       string
	Label       string
	Description string
}

// ProviderError represents an error from a provider
type ProviderError struct {
	Provider   string
	Code       string
	Message    string
	Retry      bool
	RetryAfter int // Seconds to wait before retry
}

func (e *ProviderError) Error() string {
	return e.Message
}

// IsCode reports whether err is a ProviderError with the given code.
func IsCode(err error, code string) bool {
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.Code == code
	}
	return false
}
