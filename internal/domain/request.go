package domain

import "time"

// TurnRequest represents one inbound chat turn from a client.
type TurnRequest struct {
	Text   string `json:"text"`
	UserID string `json:"user_id,omitempty"`
	Mode   string `json:"mode,omitempty"`
}

// TurnMetadata carries advisory per-turn details alongside the reply.
type TurnMetadata struct {
	TurnID       string `json:"turn_id"`
	IsLearning   bool   `json:"is_learning"`
	Category     string `json:"category,omitempty"`
	TopicHint    string `json:"topic_hint,omitempty"`
	AutoUpgraded bool   `json:"auto_upgraded"`
	Operator     bool   `json:"operator,omitempty"`
}

// TokenUsage mirrors the backend's usage counters.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// TurnResult is the structured outcome of a turn. Failures are reported
// through Success and Error rather than a Go error; callers must check
// the flag.
type TurnResult struct {
	Reply        string       `json:"reply"`
	Mode         Mode         `json:"mode"`
	Success      bool         `json:"success"`
	Error        string       `json:"error,omitempty"`
	Summary      string       `json:"summary,omitempty"`
	ProcessingMs int64        `json:"processing_ms"`
	Usage        *TokenUsage  `json:"usage,omitempty"`
	Metadata     TurnMetadata `json:"metadata"`
}

// TurnRecord is the analytics row written for every completed turn,
// successful or not. Shape follows the spreadsheet log this service
// replaced.
type TurnRecord struct {
	TurnID           string    `json:"turn_id"`
	UserID           string    `json:"user_id"`
	Mode             Mode      `json:"mode"`
	UserMessage      string    `json:"user_message"`
	Reply            string    `json:"reply"`
	Success          bool      `json:"success"`
	Error            string    `json:"error,omitempty"`
	LatencyMs        int64     `json:"latency_ms"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	TotalTokens      int       `json:"total_tokens"`
	CreatedAt        time.Time `json:"created_at"`
}
