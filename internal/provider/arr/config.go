package arr

import (
	"fmt"
	"strings"
	"time"

	"github.com/Digital-Shane/scenename/internal/provider"
)

// ConfigSchema returns the configuration fields shared by Sonarr and Radarr.
func ConfigSchema(name, defaultBaseURL string) provider.ConfigSchema {
	return provider.ConfigSchema{
		Fields: []provider.ConfigField{
			{
				Name:        "base_url",
				DisplayName: "Base URL",
				Type:        provider.ConfigFieldTypeString,
				Default:     defaultBaseURL,
				Description: fmt.Sprintf("Address of the %s web interface, including any URL base", name),
			},
			{
				Name:        "api_key",
				DisplayName: "API Key",
				Type:        provider.ConfigFieldTypePassword,
				Required:    true,
				Description: fmt.Sprintf("%s API key from Settings > General", name),
				Sensitive:   true,
				Validation: &provider.ConfigFieldValidation{
					MinLength: 16,
					MaxLength: 64,
					Pattern:   "^[A-Za-z0-9]+$",
				},
			},
			{
				Name:        "timeout",
				DisplayName: "Timeout",
				Type:        provider.ConfigFieldTypeInt,
				Default:     int(DefaultTimeout / time.Second),
				Description: "Request timeout in seconds",
				Validation: &provider.ConfigFieldValidation{
					MinValue: 1,
					MaxValue: 300,
				},
			},
			{
				Name:        "api_version",
				DisplayName: "API Version",
				Type:        provider.ConfigFieldTypeSelect,
				Default:     "v3",
				Description: "API root to use",
				Validation: &provider.ConfigFieldValidation{
					Options: []provider.ConfigFieldOption{
						{Value: "v3", Label: "v3", Description: "Versioned API used by current releases"},
						{Value: "", Label: "legacy", Description: "Unversioned api/ root of older releases"},
					},
				},
			},
		},
	}
}

// ParseConfig reads a provider configuration map into client options.
func ParseConfig(config map[string]interface{}, defaultBaseURL, defaultVersion string) (Options, error) {
	opts := Options{
		BaseURL:    defaultBaseURL,
		APIVersion: defaultVersion,
		Timeout:    DefaultTimeout,
	}

	apiKeyRaw, ok := config["api_key"].(string)
	if !ok || strings.TrimSpace(apiKeyRaw) == "" {
		return opts, fmt.Errorf("api_key is required")
	}
	opts.APIKey = strings.TrimSpace(apiKeyRaw)

	if raw, ok := config["base_url"].(string); ok && strings.TrimSpace(raw) != "" {
		opts.BaseURL = strings.TrimSpace(raw)
	}

	if raw, ok := config["api_version"]; ok {
		version, isString := raw.(string)
		if !isString {
			return opts, fmt.Errorf("api_version must be a string")
		}
		opts.APIVersion = strings.TrimSpace(version)
	}

	if raw, ok := config["timeout"]; ok {
		timeout, err := parseTimeout(raw)
		if err != nil {
			return opts, err
		}
		if timeout > 0 {
			opts.Timeout = timeout
		}
	}

	return opts, nil
}

func parseTimeout(raw interface{}) (time.Duration, error) {
	switch v := raw.(type) {
	case time.Duration:
		return v, nil
	case int:
		return time.Duration(v) * time.Second, nil
	case int64:
		return time.Duration(v) * time.Second, nil
	case float64:
		return time.Duration(v * float64(time.Second)), nil
	default:
		return 0, fmt.Errorf("timeout must be a number of seconds, got %T", raw)
	}
}
