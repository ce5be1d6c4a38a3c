package imagegen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ai-imagegen-be/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestOpenAIGenerate(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)

		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"url": "https://cdn.example.com/img1.png"},
				{"b64_json": "aGVsbG8="},
			},
		})
	}))
	defer srv.Close()

	p := NewOpenAIProvider("test-key", srv.URL)
	result, err := p.Generate(context.Background(), GenerateRequest{
		Prompt:    "a red fox",
		NumImages: 2,
	})

	assert.NoError(t, err)
	assert.Equal(t, "/v1/images/generations", gotPath)
	assert.Equal(t, "a red fox", gotBody["prompt"])
	assert.Equal(t, float64(2), gotBody["n"])
	assert.Len(t, result.Images, 2)
	assert.Equal(t, "https://cdn.example.com/img1.png", result.Images[0])
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", result.Images[1])
}

func TestOpenAIGenerateFoldsInputImagesIntoPrompt(t *testing.T) {
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"url": "https://cdn.example.com/out.png"}},
		})
	}))
	defer srv.Close()

	p := NewOpenAIProvider("test-key", srv.URL)
	_, err := p.Generate(context.Background(), GenerateRequest{
		Prompt:      "make it blue",
		InputImages: []string{"https://cdn.example.com/in.png"},
	})

	assert.NoError(t, err)
	prompt, _ := gotBody["prompt"].(string)
	assert.True(t, strings.HasPrefix(prompt, "Edit this image:"))
	assert.Contains(t, prompt, "https://cdn.example.com/in.png")
}

func TestOpenAIGenerateError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "Rate limit exceeded"},
		})
	}))
	defer srv.Close()

	p := NewOpenAIProvider("test-key", srv.URL)
	_, err := p.Generate(context.Background(), GenerateRequest{Prompt: "a red fox"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Rate limit exceeded")
}

func TestGeminiGenerate(t *testing.T) {
	var gotPath string
	var gotQuery string
	var gotBody geminiRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		json.NewDecoder(r.Body).Decode(&gotBody)

		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{
					"content": map[string]any{
						"parts": []map[string]any{
							{"text": "Here is your image"},
							{"inline_data": map[string]any{"mime_type": "image/jpeg", "data": "ZmFrZQ=="}},
						},
					},
				},
			},
		})
	}))
	defer srv.Close()

	p := NewGeminiProvider("gem-key", srv.URL)
	result, err := p.Generate(context.Background(), GenerateRequest{
		Prompt:      "a castle",
		InputImages: []string{"data:image/png;base64,aW5wdXQ="},
	})

	assert.NoError(t, err)
	assert.Equal(t, "/v1beta/models/"+geminiModel+":generateContent", gotPath)
	assert.Contains(t, gotQuery, "key=gem-key")
	assert.Len(t, result.Images, 1)
	assert.Equal(t, "data:image/jpeg;base64,ZmFrZQ==", result.Images[0])

	// Data URL input becomes an inline blob part
	parts := gotBody.Contents[0].Parts
	assert.Len(t, parts, 2)
	assert.Equal(t, "a castle", parts[0].Text)
	assert.Equal(t, "image/png", parts[1].InlineData.MimeType)
	assert.Equal(t, "aW5wdXQ=", parts[1].InlineData.Data)
}

func TestGeminiGenerateNoImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "cannot comply"}}}},
			},
		})
	}))
	defer srv.Close()

	p := NewGeminiProvider("gem-key", srv.URL)
	_, err := p.Generate(context.Background(), GenerateRequest{Prompt: "a castle"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no images")
}

func TestSplitDataURL(t *testing.T) {
	mime, data, ok := splitDataURL("data:image/png;base64,aGVsbG8=")
	assert.True(t, ok)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, "aGVsbG8=", data)

	_, _, ok = splitDataURL("https://example.com/a.png")
	assert.False(t, ok)

	_, _, ok = splitDataURL("data:image/png,plain")
	assert.False(t, ok)
}

func TestFactoryDefaults(t *testing.T) {
	f := NewFactory(config.ProviderConfig{
		Default:   "gemini",
		OpenAIKey: "k1",
		GeminiKey: "k2",
	})

	assert.Equal(t, "gemini", f.Default().Name())

	p, err := f.Get("")
	assert.NoError(t, err)
	assert.Equal(t, "gemini", p.Name())

	p, err = f.Get("openai")
	assert.NoError(t, err)
	assert.Equal(t, "openai", p.Name())

	_, err = f.Get("dalle")
	assert.Error(t, err)

	// Unknown default falls back to openai
	f = NewFactory(config.ProviderConfig{Default: "unknown"})
	assert.Equal(t, "openai", f.Default().Name())
}
