package imagegen

import (
	"fmt"

	"ai-imagegen-be/internal/config"
)

// Factory resolves a provider by name. The service layer depends on this
// interface so tests can swap in fakes.
type Factory interface {
	Get(name string) (Provider, error)
	Default() Provider
}

type factory struct {
	providers   map[string]Provider
	defaultName string
}

func NewFactory(cfg config.ProviderConfig) Factory {
	providers := map[string]Provider{
		"openai": NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIURL),
		"gemini": NewGeminiProvider(cfg.GeminiKey, cfg.GeminiURL),
	}

	defaultName := cfg.Default
	if _, ok := providers[defaultName]; !ok {
		defaultName = "openai"
	}

	return &factory{
		providers:   providers,
		defaultName: defaultName,
	}
}

func (f *factory) Get(name string) (Provider, error) {
	if name == "" {
		return f.Default(), nil
	}
	p, ok := f.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown image provider: %s", name)
	}
	return p, nil
}

func (f *factory) Default() Provider {
	return f.providers[f.defaultName]
}
