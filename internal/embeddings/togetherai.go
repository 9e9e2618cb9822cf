package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pranshu-dhingra/bfsi-research-agent/pkg/util"
	"github.com/rs/zerolog"
)

// TogetherAIEmbedder embeds text via Together AI's embeddings API. It is
// wired in as a silent-fallback alternative when OPENAI_API_KEY is unset
// but TOGETHER_API_KEY is present.
type TogetherAIEmbedder struct {
	apiKey     string
	model      string
	httpClient *http.Client
	apiURL     string
	logger     zerolog.Logger
}

type togetherAIEmbeddingRequest struct {
	Input string `json:"input"`
	Model string `json:"model"`
}

type togetherAIEmbeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// NewTogetherAIEmbedder constructs an embedder for model against apiKey.
func NewTogetherAIEmbedder(apiKey, model string) (*TogetherAIEmbedder, error) {
	logger := util.NewLogger(zerolog.ErrorLevel)
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrAPIKeyNotSet
	}
	if model == "" {
		model = "togethercomputer/m2-bert-80M-8k-retrieval"
	}

	return &TogetherAIEmbedder{
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: httpTimeout},
		apiURL:     "https://api.together.xyz/v1/embeddings",
		logger:     logger,
	}, nil
}

// ModelID returns the configured embedding model id.
func (t *TogetherAIEmbedder) ModelID() string { return t.model }

// Embed returns the embedding vector for text, or nil on any failure.
func (t *TogetherAIEmbedder) Embed(ctx context.Context, text string) []float32 {
	clean := strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
	if clean == "" {
		return degrade(t.logger, ErrContentEmpty, "embed: empty content")
	}

	body, err := json.Marshal(togetherAIEmbeddingRequest{Input: clean, Model: t.model})
	if err != nil {
		return degrade(t.logger, err, "embed: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.apiURL, bytes.NewBuffer(body))
	if err != nil {
		return degrade(t.logger, err, "embed: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", t.apiKey))

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return degrade(t.logger, err, "embed: request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return degrade(t.logger, ErrAPIRequestFailed, "embed: non-200 response")
	}

	var parsed togetherAIEmbeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return degrade(t.logger, err, "embed: decode response")
	}
	if len(parsed.Data) == 0 {
		return degrade(t.logger, ErrNoEmbeddingData, "embed: no data in response")
	}

	return parsed.Data[0].Embedding
}
