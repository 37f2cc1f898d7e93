package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/datamining-co/minai/internal/domain"
)

// MockClient is a mock implementation of LLMClient for testing. It records
// each call and replies with either the configured response or an echo of
// the last user message.
type MockClient struct {
	mu sync.Mutex

	// Response, when non-empty, is returned verbatim for every call.
	Response string
	// Err, when set, fails every call.
	Err error

	Calls           int
	LastInstruction string
	LastMessages    []domain.Message
}

// NewMockClient creates a new mock backend client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Ensure MockClient implements LLMClient interface.
var _ LLMClient = (*MockClient)(nil)

// Generate returns a mock reply.
func (m *MockClient) Generate(ctx context.Context, instruction string, messages []domain.Message) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	m.LastInstruction = instruction
	m.LastMessages = append([]domain.Message(nil), messages...)

	if m.Err != nil {
		return nil, m.Err
	}

	text := m.Response
	if text == "" {
		text = m.echoLastUser(messages)
	}

	promptTokens := 0
	for _, msg := range messages {
		promptTokens += len(msg.Content) / 4
	}

	return &Result{
		Text: text,
		Usage: domain.TokenUsage{
			PromptTokens:     promptTokens,
			CompletionTokens: len(text) / 4,
			TotalTokens:      promptTokens + len(text)/4,
		},
	}, nil
}

// echoLastUser builds a canned reply from the last user message.
func (m *MockClient) echoLastUser(messages []domain.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == domain.RoleUser {
			return fmt.Sprintf("[MOCK] Received your message: %q.", truncate(messages[i].Content, 100))
		}
	}
	return "[MOCK] This is a mock response."
}

// truncate shortens a string to maxLen runes, never splitting a
// multi-byte character.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
