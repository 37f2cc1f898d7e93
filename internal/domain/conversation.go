// Package domain defines the core domain models for the chat router.
package domain

import "time"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is a single turn record. Insertion order is conversation order
// and must never be reordered.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Conversation holds the full per-user chat state: the verbatim recent
// window, the rolling summary of everything compacted away, and metadata.
//
// Mutation happens only under the store's per-user lock.
type Conversation struct {
	UserID string `json:"user_id"`

	// Messages is the verbatim window. After a compaction run it holds
	// exactly KeepLast entries; between runs it never exceeds
	// MaxTotalMessages at rest.
	Messages []Message `json:"messages"`

	// Summary is the condensed account of evicted turns. Once non-empty it
	// only grows by append; it is never rewritten from scratch.
	Summary string `json:"summary,omitempty"`

	// MessageCount counts completed turns. Telemetry only.
	MessageCount int       `json:"message_count"`
	LastUpdated  time.Time `json:"last_updated"`
}

// Snapshot is a read-only view of a conversation for the stats endpoint.
type Snapshot struct {
	UserID       string    `json:"user_id"`
	MessageCount int       `json:"message_count"`
	WindowSize   int       `json:"window_size"`
	HasSummary   bool      `json:"has_summary"`
	LastUpdated  time.Time `json:"last_updated"`
}
