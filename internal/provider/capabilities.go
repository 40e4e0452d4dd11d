package provider

import (
	"fmt"
)

// ValidateCapabilities checks if provider capabilities are valid and consistent
func ValidateCapabilities(caps ProviderCapabilities) error {
	// Check for required fields
	if len(caps.MediaTypes) == 0 {
		return fmt.Errorf("provider must support at least one media type")
	}

	for _, mt := range caps.MediaTypes {
		if mt != MediaTypeMovie && mt != MediaTypeEpisode {
			return fmt.Errorf("unknown media type %q", mt)
		}
	}

	return nil
}
