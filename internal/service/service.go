// Package service implements the per-turn orchestration: validate,
// classify, assemble context, call the backend, compact history, and
// record analytics.
package service

import (
	"github.com/datamining-co/minai/internal/adapter/audit"
	"github.com/datamining-co/minai/internal/adapter/llm"
	"github.com/datamining-co/minai/internal/config"
	"github.com/datamining-co/minai/internal/history"
	"github.com/datamining-co/minai/internal/prompt"
	"github.com/datamining-co/minai/internal/repository"
	"github.com/datamining-co/minai/policy"
)

type Service struct {
	store     *history.Store
	llmClient llm.LLMClient
	compactor *history.Compactor
	prompts   *prompt.Registry
	guard     *policy.Engine
	turnLog   *repository.TurnLog
	audit     *audit.Client
	config    *config.Config
}

// New creates the service. turnLog, auditClient, and guard may be nil,
// which disables the corresponding concern.
func New(cfg *config.Config, store *history.Store, llmClient llm.LLMClient, prompts *prompt.Registry, guard *policy.Engine, turnLog *repository.TurnLog, auditClient *audit.Client) *Service {
	return &Service{
		store:     store,
		llmClient: llmClient,
		compactor: history.NewCompactor(llmClient, cfg.MaxTotalMessages, cfg.KeepLast),
		prompts:   prompts,
		guard:     guard,
		turnLog:   turnLog,
		audit:     auditClient,
		config:    cfg,
	}
}
