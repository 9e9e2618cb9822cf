// Package llm wraps the remote chat/completion API (C2) in both blocking
// and token-streaming modes. Neither operation ever raises to its caller:
// Call returns an empty string on failure, Stream closes its channel after
// emitting whatever pieces it managed to produce.
package llm

import (
	"context"
	"strings"

	"github.com/pranshu-dhingra/bfsi-research-agent/pkg/util"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// Client is the LLM client contract every caller in the orchestration core
// depends on. Neither method performs its own output side effects (no
// printing) so UI and evaluation layers can consume Stream identically.
type Client interface {
	Call(ctx context.Context, prompt string, model string, temperature float32) string
	Stream(ctx context.Context, prompt string, model string, temperature float32) <-chan string
}

// OpenAIClient implements Client against OpenAI's chat completions API.
type OpenAIClient struct {
	api    *openai.Client
	logger zerolog.Logger
}

// NewOpenAIClient constructs a Client from an API key. apiKey must be
// non-empty.
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNoAPIKey
	}
	return &OpenAIClient{
		api:    openai.NewClient(apiKey),
		logger: util.NewLogger(zerolog.ErrorLevel),
	}, nil
}

// Call performs a blocking chat completion and returns the concatenated
// generation text. On any failure it logs and returns "".
func (c *OpenAIClient) Call(ctx context.Context, prompt, model string, temperature float32) string {
	if strings.TrimSpace(prompt) == "" {
		c.logger.Warn().Msg("call: empty prompt")
		return ""
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		c.logger.Warn().Err(err).Msg("call: chat completion failed")
		return ""
	}
	if len(resp.Choices) == 0 {
		c.logger.Warn().Msg("call: no choices in response")
		return ""
	}

	return resp.Choices[0].Message.Content
}

// Stream performs a streaming chat completion, emitting each incremental
// text piece on the returned channel and closing it when the stream ends
// or fails. It does not apply the join rule itself — that is the
// consumer's responsibility (see JoinPieces) — it emits raw pieces as the
// remote service produces them.
func (c *OpenAIClient) Stream(ctx context.Context, prompt, model string, temperature float32) <-chan string {
	out := make(chan string)

	go func() {
		defer close(out)

		if strings.TrimSpace(prompt) == "" {
			c.logger.Warn().Msg("stream: empty prompt")
			return
		}

		stream, err := c.api.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
			Model:       model,
			Temperature: temperature,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
		if err != nil {
			c.logger.Warn().Err(err).Msg("stream: failed to open stream")
			return
		}
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if err != nil {
				if err.Error() != "EOF" {
					c.logger.Warn().Err(err).Msg("stream: recv failed")
				}
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			piece := resp.Choices[0].Delta.Content
			if piece == "" {
				continue
			}
			select {
			case out <- piece:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

// JoinPieces concatenates streamed text pieces using the word-boundary
// preservation rule: insert a single space between two pieces only when
// neither boundary character is whitespace and
// either the next piece starts with an uppercase letter or the previous
// piece ends in sentence-terminating punctuation. This prevents both
// run-together tokens ("NOTRELEVANT") and over-split subwords
// ("inv igorate").
func JoinPieces(pieces []string) string {
	var b strings.Builder
	for i, piece := range pieces {
		if i == 0 || piece == "" {
			b.WriteString(piece)
			continue
		}

		prev := b.String()
		if needsSpace(prev, piece) {
			b.WriteByte(' ')
		}
		b.WriteString(piece)
	}
	return b.String()
}

func needsSpace(prev, next string) bool {
	if prev == "" || next == "" {
		return false
	}
	prevLast := rune(prev[len(prev)-1])
	nextFirst := rune(next[0])

	// The guard only suppresses a space at a whitespace boundary; it is
	// not a punctuation filter, otherwise a piece ending in sentence
	// punctuation could never trigger the endsTerminal case below.
	if isWhitespace(prevLast) || isWhitespace(nextFirst) {
		return false
	}

	endsTerminal := prevLast == '.' || prevLast == '!' || prevLast == '?'
	startsUpper := nextFirst >= 'A' && nextFirst <= 'Z'

	return endsTerminal || startsUpper
}

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}
