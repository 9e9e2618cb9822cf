package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pranshu-dhingra/bfsi-research-agent/pkg/util"
	"github.com/rs/zerolog"
)

const httpTimeout = 30 * time.Second

// OpenAIEmbedder embeds text via OpenAI's embeddings API.
type OpenAIEmbedder struct {
	apiKey     string
	model      string
	dimension  int
	httpClient *http.Client
	apiURL     string
	logger     zerolog.Logger
}

type openAIEmbeddingRequest struct {
	Input          string `json:"input"`
	Model          string `json:"model"`
	EncodingFormat string `json:"encoding_format"`
}

type openAIEmbeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// NewOpenAIEmbedder constructs an embedder for model against the given
// API key. apiKey must be non-empty; callers are expected to source it
// from config.Config.OpenAIAPIKey.
func NewOpenAIEmbedder(apiKey, model string) (*OpenAIEmbedder, error) {
	logger := util.NewLogger(zerolog.ErrorLevel)
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrAPIKeyNotSet
	}

	dimension, ok := openAIDimensions[model]
	if !ok {
		return nil, ErrUnsupportedModel
	}

	return &OpenAIEmbedder{
		apiKey:     apiKey,
		model:      model,
		dimension:  dimension,
		httpClient: &http.Client{Timeout: httpTimeout},
		apiURL:     "https://api.openai.com/v1/embeddings",
		logger:     logger,
	}, nil
}

var openAIDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// ModelID returns the configured embedding model id.
func (o *OpenAIEmbedder) ModelID() string { return o.model }

// Embed returns the embedding vector for text, or nil on any failure.
func (o *OpenAIEmbedder) Embed(ctx context.Context, text string) []float32 {
	clean := strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
	if clean == "" {
		return degrade(o.logger, ErrContentEmpty, "embed: empty content")
	}

	body, err := json.Marshal(openAIEmbeddingRequest{
		Input:          clean,
		Model:          o.model,
		EncodingFormat: "float",
	})
	if err != nil {
		return degrade(o.logger, err, "embed: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.apiURL, bytes.NewBuffer(body))
	if err != nil {
		return degrade(o.logger, err, "embed: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", o.apiKey))

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return degrade(o.logger, err, "embed: request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return degrade(o.logger, ErrAPIRequestFailed, "embed: non-200 response")
	}

	var parsed openAIEmbeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return degrade(o.logger, err, "embed: decode response")
	}
	if len(parsed.Data) == 0 {
		return degrade(o.logger, ErrNoEmbeddingData, "embed: no data in response")
	}

	return parsed.Data[0].Embedding
}
