// Package tokenizer counts prompt tokens so the agent can log transcript
// growth across steps.
package tokenizer

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	encoder     *tiktoken.Tiktoken
	encoderOnce sync.Once
	encoderErr  error
)

func initEncoder() error {
	encoderOnce.Do(func() {
		// cl100k_base covers the GPT-4 family.
		encoder, encoderErr = tiktoken.GetEncoding("cl100k_base")
	})
	return encoderErr
}

// CountTokens counts the tokens in text. When the encoder cannot be
// initialized (offline environments) it falls back to a rough estimate.
func CountTokens(text string) int {
	if err := initEncoder(); err != nil {
		return estimateTokens(text)
	}
	return len(encoder.Encode(text, nil, nil))
}

// estimateTokens approximates at ~4 characters per token.
func estimateTokens(text string) int {
	return len(text) / 4
}
