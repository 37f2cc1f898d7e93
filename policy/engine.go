// Package policy evaluates the chat guardrail policy with OPA. The policy
// is data: operators can block users or modes by editing Rego, not code.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.chat_policy.decision"),
		rego.Module("chat_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate checks the chat policy for one turn. Input keys: user_id, mode,
// input_length. Returns decision ("allow" or "block") and an optional
// reason.
func (e *Engine) Evaluate(ctx context.Context, input interface{}) (string, string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		// The policy is expected to define a default.
		return "allow", "default", nil
	}

	val := results[0].Expressions[0].Value
	switch v := val.(type) {
	case string:
		return v, "", nil
	case map[string]interface{}:
		decision, _ := v["decision"].(string)
		reason, _ := v["reason"].(string)
		if decision == "" {
			decision = "allow"
		}
		return decision, reason, nil
	}

	return "allow", "unexpected return type", nil
}

// DefaultPolicy is the default guardrail content: allow everything, with
// examples of the rules operators typically add.
const DefaultPolicy = `
package chat_policy

import rego.v1

default decision := "allow"

# Example: block a misbehaving user
# decision := "block" if {
# 	input.user_id == "banned-user"
# }

# Example: keep the fast lane for short questions
# decision := "block" if {
# 	input.mode == "fast"
# 	input.input_length > 1000
# }
`
