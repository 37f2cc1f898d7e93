package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/datamining-co/minai/internal/adapter/llm"
	"github.com/datamining-co/minai/internal/config"
	"github.com/datamining-co/minai/internal/domain"
	"github.com/datamining-co/minai/internal/history"
	"github.com/datamining-co/minai/internal/prompt"
)

func testConfig() *config.Config {
	return &config.Config{
		MaxTotalMessages: 14,
		KeepLast:         6,
		MaxInputLen:      4000,
		MaxUserIDLen:     128,
	}
}

func newTestService(mock *llm.MockClient) (*Service, *history.Store) {
	store := history.NewStore()
	svc := New(testConfig(), store, mock, prompt.NewRegistry(), nil, nil, nil)
	return svc, store
}

func TestSubmitTurnSuccess(t *testing.T) {
	mock := llm.NewMockClient()
	mock.Response = "hello there"
	svc, store := newTestService(mock)

	result := svc.SubmitTurn(context.Background(), domain.TurnRequest{
		Text: "hi", UserID: "u1", Mode: "standard",
	})

	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.Reply != "hello there" {
		t.Fatalf("unexpected reply: %q", result.Reply)
	}
	if result.Mode != domain.ModeStandard {
		t.Fatalf("unexpected mode: %q", result.Mode)
	}
	if result.Usage == nil || result.Usage.TotalTokens == 0 {
		t.Fatalf("usage missing: %+v", result.Usage)
	}

	snap, ok := store.Stats("u1")
	if !ok || snap.MessageCount != 1 || snap.WindowSize != 2 {
		t.Fatalf("unexpected state after turn: %+v", snap)
	}
}

func TestSubmitTurnWhitespaceOnlyInput(t *testing.T) {
	mock := llm.NewMockClient()
	svc, store := newTestService(mock)

	result := svc.SubmitTurn(context.Background(), domain.TurnRequest{
		Text: "   ", UserID: "u1", Mode: "standard",
	})

	if result.Success {
		t.Fatal("expected failure")
	}
	if result.Error != domain.ErrCodeValidation {
		t.Fatalf("expected validation_error, got %q", result.Error)
	}
	if mock.Calls != 0 {
		t.Fatal("validation failures must not call the backend")
	}
	if _, ok := store.Stats("u1"); ok {
		t.Fatal("validation failures must not create a conversation")
	}
}

func TestSubmitTurnRejectsBadRequests(t *testing.T) {
	mock := llm.NewMockClient()
	svc, _ := newTestService(mock)

	cases := []struct {
		name string
		req  domain.TurnRequest
	}{
		{"empty text", domain.TurnRequest{Text: "", UserID: "u1"}},
		{"oversized text", domain.TurnRequest{Text: strings.Repeat("x", 4001), UserID: "u1"}},
		{"empty user", domain.TurnRequest{Text: "hi", UserID: ""}},
		{"oversized user", domain.TurnRequest{Text: "hi", UserID: strings.Repeat("u", 129)}},
		{"unknown mode", domain.TurnRequest{Text: "hi", UserID: "u1", Mode: "turbo"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := svc.SubmitTurn(context.Background(), tc.req)
			if result.Success || result.Error != domain.ErrCodeValidation {
				t.Fatalf("expected validation failure, got %+v", result)
			}
			if result.Reply == "" {
				t.Fatal("validation failures must carry a reason in the reply")
			}
		})
	}
	if mock.Calls != 0 {
		t.Fatalf("no backend calls expected, got %d", mock.Calls)
	}
}

func TestSubmitTurnBackendError(t *testing.T) {
	mock := llm.NewMockClient()
	mock.Err = errors.New("LLM API error [429]: rate limit exceeded")
	svc, store := newTestService(mock)

	result := svc.SubmitTurn(context.Background(), domain.TurnRequest{
		Text: "hi", UserID: "u1", Mode: "standard",
	})

	if result.Success || result.Error != domain.ErrCodeBackend {
		t.Fatalf("expected backend_error, got %+v", result)
	}
	// The user-safe message, not the raw error.
	if strings.Contains(result.Reply, "429") {
		t.Fatalf("raw detail leaked to non-operator reply: %q", result.Reply)
	}
	// A user whose only turn failed must stay absent from the store.
	if _, ok := store.Stats("u1"); ok {
		t.Fatal("backend failure must not create a conversation")
	}
}

func TestSubmitTurnBackendErrorKeepsExistingHistory(t *testing.T) {
	mock := llm.NewMockClient()
	svc, store := newTestService(mock)

	first := svc.SubmitTurn(context.Background(), domain.TurnRequest{
		Text: "hi", UserID: "u1", Mode: "standard",
	})
	if !first.Success {
		t.Fatalf("setup turn failed: %+v", first)
	}

	mock.Err = errors.New("LLM API error [500]: upstream exploded")
	second := svc.SubmitTurn(context.Background(), domain.TurnRequest{
		Text: "still there?", UserID: "u1", Mode: "standard",
	})
	if second.Success {
		t.Fatal("expected failure")
	}

	snap, ok := store.Stats("u1")
	if !ok || snap.WindowSize != 2 || snap.MessageCount != 1 {
		t.Fatalf("failed turn mutated existing history: %+v", snap)
	}
}

func TestSubmitTurnOperatorGetsDetail(t *testing.T) {
	mock := llm.NewMockClient()
	mock.Err = errors.New("LLM API error [401]: bad api key")
	svc, _ := newTestService(mock)

	result := svc.SubmitTurn(context.Background(), domain.TurnRequest{
		Text: "#operator why is this failing?", UserID: "dev1", Mode: "standard",
	})

	if result.Success {
		t.Fatal("expected failure")
	}
	if !result.Metadata.Operator {
		t.Fatal("operator marker not detected")
	}
	if !strings.Contains(result.Reply, "bad api key") {
		t.Fatalf("operator should see raw detail, got %q", result.Reply)
	}
}

func TestSubmitTurnEmptyResponse(t *testing.T) {
	mock := llm.NewMockClient()
	mock.Response = "  \n "
	svc, store := newTestService(mock)

	result := svc.SubmitTurn(context.Background(), domain.TurnRequest{
		Text: "hi", UserID: "u1", Mode: "standard",
	})

	if result.Success || result.Error != domain.ErrCodeInternal {
		t.Fatalf("expected internal_error, got %+v", result)
	}
	if _, ok := store.Stats("u1"); ok {
		t.Fatal("empty response must not create a conversation")
	}
}

func TestSubmitTurnAutoUpgradesToLearning(t *testing.T) {
	mock := llm.NewMockClient()
	mock.Response = "sure, generators are..."
	svc, _ := newTestService(mock)

	result := svc.SubmitTurn(context.Background(), domain.TurnRequest{
		Text: "teach me python generators", UserID: "u1", Mode: "standard",
	})

	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.Mode != domain.ModeLearning || !result.Metadata.AutoUpgraded {
		t.Fatalf("expected auto-upgrade to learning, got %+v", result)
	}
	if result.Metadata.Category != "programming" {
		t.Fatalf("unexpected category: %q", result.Metadata.Category)
	}
	if !strings.Contains(mock.LastInstruction, "topic focus: python") {
		t.Fatalf("topic hint missing from instruction:\n%s", mock.LastInstruction)
	}
}

func TestSubmitTurnCompactionScenario(t *testing.T) {
	mock := llm.NewMockClient()
	svc, store := newTestService(mock)

	// Each turn appends a user/assistant pair; after 8 turns the window
	// would hold 16 > 14, so compaction leaves exactly 6.
	var last *domain.TurnResult
	for i := 0; i < 8; i++ {
		last = svc.SubmitTurn(context.Background(), domain.TurnRequest{
			Text: fmt.Sprintf("question %d", i), UserID: "u1", Mode: "standard",
		})
		if !last.Success {
			t.Fatalf("turn %d failed: %+v", i, last)
		}
	}

	snap, ok := store.Stats("u1")
	if !ok {
		t.Fatal("expected conversation")
	}
	if snap.WindowSize != 6 {
		t.Fatalf("expected 6 kept messages, got %d", snap.WindowSize)
	}
	if !snap.HasSummary {
		t.Fatal("expected a summary after compaction")
	}
	if last.Summary == "" {
		t.Fatal("summary should surface in the turn result")
	}
	if snap.MessageCount != 8 {
		t.Fatalf("message count should keep counting turns, got %d", snap.MessageCount)
	}
}

func TestSubmitTurnSummaryInjectedAsContext(t *testing.T) {
	mock := llm.NewMockClient()
	svc, store := newTestService(mock)

	unlock := store.LockUser("u1")
	conv := store.GetOrCreate("u1")
	conv.Summary = "user previously asked about goroutines"
	conv.Messages = []domain.Message{
		{Role: domain.RoleUser, Content: "earlier"},
		{Role: domain.RoleAssistant, Content: "reply"},
	}
	unlock()

	result := svc.SubmitTurn(context.Background(), domain.TurnRequest{
		Text: "and channels?", UserID: "u1", Mode: "standard",
	})
	if !result.Success {
		t.Fatalf("turn failed: %+v", result)
	}

	if len(mock.LastMessages) != 4 {
		t.Fatalf("expected summary + window + input = 4 messages, got %d", len(mock.LastMessages))
	}
	lead := mock.LastMessages[0]
	if lead.Role != domain.RoleSystem || !strings.Contains(lead.Content, "goroutines") {
		t.Fatalf("summary not injected as leading system message: %+v", lead)
	}

	// The synthetic summary message is context only, never stored.
	snap, _ := store.Stats("u1")
	if snap.WindowSize != 4 {
		t.Fatalf("stored window should hold 4 verbatim messages, got %d", snap.WindowSize)
	}
}

func TestSubmitTurnConcurrentSameUser(t *testing.T) {
	mock := llm.NewMockClient()
	svc, store := newTestService(mock)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result := svc.SubmitTurn(context.Background(), domain.TurnRequest{
				Text: fmt.Sprintf("concurrent %d", i), UserID: "u1", Mode: "standard",
			})
			if !result.Success {
				t.Errorf("turn %d failed: %+v", i, result)
			}
		}(i)
	}
	wg.Wait()

	// Neither turn may be lost: both pairs must be in the window.
	snap, ok := store.Stats("u1")
	if !ok {
		t.Fatal("expected conversation")
	}
	if snap.WindowSize != 4 || snap.MessageCount != 2 {
		t.Fatalf("lost a concurrent turn: %+v", snap)
	}
}

func TestSubmitTurnNeverPanics(t *testing.T) {
	mock := llm.NewMockClient()
	svc, _ := newTestService(mock)

	inputs := []domain.TurnRequest{
		{},
		{Text: "hi"},
		{Text: "hi", UserID: "u1", Mode: "???"},
		{Text: strings.Repeat("long ", 2000), UserID: "u1"},
	}
	for _, req := range inputs {
		result := svc.SubmitTurn(context.Background(), req)
		if result == nil {
			t.Fatal("result must never be nil")
		}
		if result.Success && result.Error != "" {
			t.Fatalf("inconsistent result: %+v", result)
		}
	}
}
