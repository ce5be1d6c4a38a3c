package imagegen

import "context"

// GenerateRequest describes one generation call. InputImages are source
// image URLs for edit-style prompts; empty means pure text-to-image.
type GenerateRequest struct {
	Prompt      string
	InputImages []string
	NumImages   int
}

// GenerateResult carries the produced image URLs. Providers that return
// raw bytes encode them as data URLs so callers handle one shape.
type GenerateResult struct {
	Images []string
}

// Provider is a single image generation backend.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error)
}
