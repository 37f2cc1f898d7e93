package history

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/datamining-co/minai/internal/adapter/llm"
	"github.com/datamining-co/minai/internal/domain"
)

// summaryInstruction is the fixed instruction for summarization calls.
// The summarizer is stateless per invocation: it sees only the transcript
// it is asked to condense.
const summaryInstruction = `You are a conversation summarizer. Produce a concise,
factual, structured account of the conversation transcript you are given,
in at most 300 words. Cover:
1. The user's goal
2. The knowledge level the user has demonstrated
3. Key concepts, facts, or code discussed
4. Unresolved questions or pending items
Do not add commentary or advice. Output only the summary.`

// summarySeparator joins summary epochs. An existing summary is never
// discarded; new segments are appended after it.
const summarySeparator = "\n\n---\n\n"

// Compactor keeps a conversation's verbatim window bounded, condensing
// evicted turns onto the rolling summary via a backend call.
type Compactor struct {
	llmClient llm.LLMClient
	maxTotal  int
	keepLast  int
}

// NewCompactor creates a compactor with the given bounds. keepLast must be
// strictly less than maxTotal (enforced by config.Load).
func NewCompactor(llmClient llm.LLMClient, maxTotal, keepLast int) *Compactor {
	return &Compactor{
		llmClient: llmClient,
		maxTotal:  maxTotal,
		keepLast:  keepLast,
	}
}

// Apply runs after every successful turn with the complete post-turn
// message sequence (prior window plus the new user/assistant pair) and
// writes the resulting window and summary back onto conv.
//
// Summarization failures never propagate: the user-visible reply was
// already produced, so a fallback placeholder takes the lost segment's
// place instead.
func (c *Compactor) Apply(ctx context.Context, conv *domain.Conversation, all []domain.Message) {
	if len(all) <= c.maxTotal {
		conv.Messages = all
		return
	}

	cut := len(all) - c.keepLast
	if cut < 0 {
		cut = 0
	}
	toSummarize := all[:cut]
	toKeep := all[cut:]

	// Nothing evicted, nothing to condense.
	if len(toSummarize) == 0 {
		conv.Messages = toKeep
		return
	}

	segment := c.summarize(ctx, toSummarize)

	if conv.Summary == "" {
		conv.Summary = segment
	} else {
		conv.Summary = conv.Summary + summarySeparator + segment
	}
	conv.Messages = toKeep
}

// summarize condenses the evicted messages into one summary segment,
// substituting a placeholder when the backend fails or returns nothing.
func (c *Compactor) summarize(ctx context.Context, msgs []domain.Message) string {
	transcript := Transcript(msgs)

	result, err := c.llmClient.Generate(ctx, summaryInstruction, []domain.Message{
		{Role: domain.RoleUser, Content: transcript},
	})
	if err != nil {
		log.Printf("WARN: history summarization failed: %v", err)
		return fallbackSummary(len(msgs))
	}
	if strings.TrimSpace(result.Text) == "" {
		log.Printf("WARN: history summarization returned empty text")
		return fallbackSummary(len(msgs))
	}
	return result.Text
}

// Transcript flattens messages into role-tagged lines in order.
func Transcript(msgs []domain.Message) string {
	var sb strings.Builder
	for _, msg := range msgs {
		sb.WriteString(fmt.Sprintf("[%s]: %s\n", msg.Role, msg.Content))
	}
	return sb.String()
}

func fallbackSummary(lost int) string {
	return fmt.Sprintf("[Summary unavailable: %d earlier messages were compacted]", lost)
}
