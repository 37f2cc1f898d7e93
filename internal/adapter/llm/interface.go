// Package llm provides the generation backend client.
package llm

import (
	"context"

	"github.com/datamining-co/minai/internal/domain"
)

// Result is the outcome of one generation call.
type Result struct {
	Text  string
	Usage domain.TokenUsage
}

// LLMClient defines the interface for the generation backend. A call is a
// single round trip: one instruction, one ordered message sequence, one
// reply.
type LLMClient interface {
	Generate(ctx context.Context, instruction string, messages []domain.Message) (*Result, error)
}

// Ensure Client implements LLMClient interface.
var _ LLMClient = (*Client)(nil)
