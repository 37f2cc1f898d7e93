package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/datamining-co/minai/internal/classify"
	"github.com/datamining-co/minai/internal/domain"
	"github.com/datamining-co/minai/internal/history"
)

// SubmitTurn runs one complete turn. It never returns a Go error: every
// outcome, including validation and backend failures, is a structured
// TurnResult with Success set.
func (s *Service) SubmitTurn(ctx context.Context, req domain.TurnRequest) *domain.TurnResult {
	turnID := "turn_" + uuid.New().String()[:8]
	startTime := time.Now()

	result := s.runTurn(ctx, turnID, req)
	result.ProcessingMs = time.Since(startTime).Milliseconds()

	s.recordTurn(ctx, req, result)
	return result
}

func (s *Service) runTurn(ctx context.Context, turnID string, req domain.TurnRequest) *domain.TurnResult {
	// Validation happens before any state is touched: a rejected turn must
	// not create a conversation for its user.
	mode, verr := s.validateTurn(req)
	if verr != nil {
		return &domain.TurnResult{
			Reply:    verr.Reason,
			Mode:     domain.Mode(req.Mode),
			Success:  false,
			Error:    domain.ErrCodeValidation,
			Metadata: domain.TurnMetadata{TurnID: turnID},
		}
	}

	// Guardrail policy: deny decisions surface exactly like validation
	// errors. A nil engine allows everything.
	if s.guard != nil {
		decision, reason, err := s.guard.Evaluate(ctx, policyInput(req, mode))
		if err != nil {
			log.Printf("WARN: guardrail evaluation failed, allowing turn: %v", err)
		} else if decision == "block" {
			if reason == "" {
				reason = "this request is not allowed"
			}
			return &domain.TurnResult{
				Reply:    reason,
				Mode:     mode,
				Success:  false,
				Error:    domain.ErrCodeValidation,
				Metadata: domain.TurnMetadata{TurnID: turnID},
			}
		}
	}

	cls := classify.Classify(req.Text)
	built := s.prompts.Build(mode, cls, req.Text)

	meta := domain.TurnMetadata{
		TurnID:       turnID,
		IsLearning:   cls.IsLearning,
		Category:     cls.Category,
		TopicHint:    cls.TopicHint,
		AutoUpgraded: built.AutoUpgraded,
		Operator:     built.Operator,
	}

	// The whole read-modify-write must stay under the per-user lock, or
	// two concurrent turns for one user could lose each other's history.
	unlock := s.store.LockUser(req.UserID)
	defer unlock()

	// Load without creating: a turn that fails past this point must not
	// leave an empty conversation behind for a user who never completed
	// one.
	conv := s.store.Get(req.UserID)

	outbound := buildContext(conv, req.Text)

	genResult, err := s.llmClient.Generate(ctx, built.Instruction, outbound)
	if err != nil {
		backendErr := domain.ClassifyBackendError(err)
		reply := backendErr.UserMessage()
		if built.Operator {
			// Operators get the raw detail; everyone else gets the safe text.
			reply += "\n\nDetail: " + backendErr.Error()
		}
		return &domain.TurnResult{
			Reply:    reply,
			Mode:     built.Mode,
			Success:  false,
			Error:    domain.ErrCodeBackend,
			Metadata: meta,
		}
	}

	if strings.TrimSpace(genResult.Text) == "" {
		return &domain.TurnResult{
			Reply:    domain.ErrEmptyResponse.Error(),
			Mode:     built.Mode,
			Success:  false,
			Error:    domain.ErrCodeInternal,
			Metadata: meta,
		}
	}

	// The conversation is only materialized once the backend has replied.
	conv = s.store.GetOrCreate(req.UserID)

	// The full post-turn sequence: retained window plus the just-completed
	// user/assistant pair. The summary system message is context only and
	// is never stored.
	all := make([]domain.Message, 0, len(conv.Messages)+2)
	all = append(all, conv.Messages...)
	all = append(all,
		domain.Message{Role: domain.RoleUser, Content: req.Text},
		domain.Message{Role: domain.RoleAssistant, Content: genResult.Text},
	)

	s.compactor.Apply(ctx, conv, all)
	history.Touch(conv)

	usage := genResult.Usage
	return &domain.TurnResult{
		Reply:    genResult.Text,
		Mode:     built.Mode,
		Success:  true,
		Summary:  conv.Summary,
		Usage:    &usage,
		Metadata: meta,
	}
}

// buildContext assembles the outbound message sequence: the rolling
// summary (as a leading synthetic system message, only when non-empty),
// the verbatim window, then the new input. conv may be nil for a user
// with no history yet.
func buildContext(conv *domain.Conversation, input string) []domain.Message {
	if conv == nil {
		return []domain.Message{{Role: domain.RoleUser, Content: input}}
	}
	outbound := make([]domain.Message, 0, len(conv.Messages)+2)
	if conv.Summary != "" {
		outbound = append(outbound, domain.Message{
			Role:    domain.RoleSystem,
			Content: "Summary of the earlier conversation:\n" + conv.Summary,
		})
	}
	outbound = append(outbound, conv.Messages...)
	outbound = append(outbound, domain.Message{Role: domain.RoleUser, Content: input})
	return outbound
}

// recordTurn writes the analytics row. Both sinks are best effort; a
// failure never affects the returned result.
func (s *Service) recordTurn(ctx context.Context, req domain.TurnRequest, result *domain.TurnResult) {
	if s.turnLog == nil && s.audit == nil {
		return
	}

	rec := &domain.TurnRecord{
		TurnID:      result.Metadata.TurnID,
		UserID:      req.UserID,
		Mode:        result.Mode,
		UserMessage: req.Text,
		Reply:       result.Reply,
		Success:     result.Success,
		Error:       result.Error,
		LatencyMs:   result.ProcessingMs,
		CreatedAt:   time.Now(),
	}
	if result.Usage != nil {
		rec.PromptTokens = result.Usage.PromptTokens
		rec.CompletionTokens = result.Usage.CompletionTokens
		rec.TotalTokens = result.Usage.TotalTokens
	}

	if s.turnLog != nil {
		if err := s.turnLog.Record(ctx, rec); err != nil {
			log.Printf("WARN: failed to record turn %s: %v", rec.TurnID, err)
		}
	}

	if s.audit != nil {
		go func() {
			if err := s.audit.Log(rec); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("WARN: failed to post turn %s to audit webhook: %v", rec.TurnID, err)
			}
		}()
	}
}

func policyInput(req domain.TurnRequest, mode domain.Mode) map[string]interface{} {
	return map[string]interface{}{
		"user_id":      req.UserID,
		"mode":         string(mode),
		"input_length": len(req.Text),
	}
}
