package llm

import "errors"

var (
	ErrNoAPIKey  = errors.New("llm: OPENAI_API_KEY environment variable not set")
	ErrEmptyPrompt = errors.New("llm: prompt cannot be empty")
)
