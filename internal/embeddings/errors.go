package embeddings

import "errors"

var (
	ErrAPIKeyNotSet     = errors.New("embeddings: API key not set")
	ErrUnsupportedModel = errors.New("embeddings: unsupported model")
	ErrContentEmpty     = errors.New("embeddings: content is empty")
	ErrAPIRequestFailed = errors.New("embeddings: API request failed")
	ErrNoEmbeddingData  = errors.New("embeddings: no embedding data in response")
)
