package a2gate

import (
	"fmt"
	"strings"
)

// Provider names the model backend a gateway talks to.
type Provider string

func (p Provider) String() string { return string(p) }

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
	ProviderGoogle    Provider = "google"
	ProviderVertex    Provider = "vertex"
)

// Providers lists every backend in the order they are documented.
func Providers() []Provider {
	return []Provider{ProviderAnthropic, ProviderOpenAI, ProviderGoogle, ProviderVertex}
}

// ParseProvider resolves a case-insensitive backend name.
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Providers() {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown provider: %s (must be anthropic, openai, google, or vertex)", s)
}
