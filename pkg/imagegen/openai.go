package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const openAIModel = "dall-e-3"

type OpenAIProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewOpenAIProvider(apiKey, baseURL string) *OpenAIProvider {
	return &OpenAIProvider{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

type openAIRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size,omitempty"`
	ResponseFormat string `json:"response_format,omitempty"`
}

type openAIResponse struct {
	Data []struct {
		URL     string `json:"url"`
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *OpenAIProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	n := req.NumImages
	if n <= 0 {
		n = 1
	}

	// The generations endpoint has no image input, so edit requests fold
	// the source URLs into the prompt.
	prompt := req.Prompt
	if len(req.InputImages) > 0 {
		prompt = fmt.Sprintf("Edit this image: %s. Source images: %s", req.Prompt, strings.Join(req.InputImages, ", "))
	}

	payload := openAIRequest{
		Model:  openAIModel,
		Prompt: prompt,
		N:      n,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/images/generations", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read openai response: %w", err)
	}

	var parsed openAIResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal openai response: %w, body: %s", err, string(respBody))
	}

	if resp.StatusCode >= 400 {
		if parsed.Error != nil {
			return nil, fmt.Errorf("openai returned %d: %s", resp.StatusCode, parsed.Error.Message)
		}
		return nil, fmt.Errorf("openai returned %d: %s", resp.StatusCode, string(respBody))
	}

	images := make([]string, 0, len(parsed.Data))
	for _, item := range parsed.Data {
		switch {
		case item.URL != "":
			images = append(images, item.URL)
		case item.B64JSON != "":
			images = append(images, "data:image/png;base64,"+item.B64JSON)
		}
	}

	if len(images) == 0 {
		return nil, fmt.Errorf("openai returned no images")
	}

	return &GenerateResult{Images: images}, nil
}
