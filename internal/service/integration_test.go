package service

import (
	"context"
	"testing"

	"github.com/datamining-co/minai/internal/adapter/llm"
	"github.com/datamining-co/minai/internal/domain"
	"github.com/datamining-co/minai/internal/history"
	"github.com/datamining-co/minai/internal/prompt"
	"github.com/datamining-co/minai/internal/repository"
	"github.com/datamining-co/minai/policy"
)

func TestTurnsAreRecordedInTurnLog(t *testing.T) {
	turnLog, err := repository.NewTurnLog(":memory:")
	if err != nil {
		t.Fatalf("NewTurnLog failed: %v", err)
	}
	defer turnLog.Close()

	mock := llm.NewMockClient()
	mock.Response = "hello"
	svc := New(testConfig(), history.NewStore(), mock, prompt.NewRegistry(), nil, turnLog, nil)

	ctx := context.Background()

	ok := svc.SubmitTurn(ctx, domain.TurnRequest{Text: "hi", UserID: "u1"})
	if !ok.Success {
		t.Fatalf("turn failed: %+v", ok)
	}

	// Failed turns are logged too.
	bad := svc.SubmitTurn(ctx, domain.TurnRequest{Text: "   ", UserID: "u1"})
	if bad.Success {
		t.Fatal("expected validation failure")
	}

	n, err := turnLog.CountForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("CountForUser failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 logged turns, got %d", n)
	}
}

func TestGuardrailBlocksTurn(t *testing.T) {
	const blockPolicy = `
package chat_policy

import rego.v1

default decision := "allow"

decision := {"decision": "block", "reason": "you are not allowed to chat"} if {
	input.user_id == "banned-user"
}
`
	ctx := context.Background()
	guard, err := policy.NewEngine(ctx, blockPolicy)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	mock := llm.NewMockClient()
	store := history.NewStore()
	svc := New(testConfig(), store, mock, prompt.NewRegistry(), guard, nil, nil)

	result := svc.SubmitTurn(ctx, domain.TurnRequest{Text: "hi", UserID: "banned-user"})
	if result.Success || result.Error != domain.ErrCodeValidation {
		t.Fatalf("expected blocked turn, got %+v", result)
	}
	if result.Reply != "you are not allowed to chat" {
		t.Fatalf("expected the policy reason, got %q", result.Reply)
	}
	if mock.Calls != 0 {
		t.Fatal("blocked turns must not reach the backend")
	}
	if _, ok := store.Stats("banned-user"); ok {
		t.Fatal("blocked turns must not create a conversation")
	}

	// Other users pass through.
	result = svc.SubmitTurn(ctx, domain.TurnRequest{Text: "hi", UserID: "u1"})
	if !result.Success {
		t.Fatalf("allowed turn failed: %+v", result)
	}
}
