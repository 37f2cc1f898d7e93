package service

import (
	"fmt"
	"strings"

	"github.com/datamining-co/minai/internal/domain"
)

// validateTurn checks raw input shape before any state is touched. It is
// pure: no backend call, no history access.
func (s *Service) validateTurn(req domain.TurnRequest) (domain.Mode, *domain.ValidationError) {
	if strings.TrimSpace(req.Text) == "" {
		return "", &domain.ValidationError{Reason: "message text must not be empty"}
	}
	if len(req.Text) > s.config.MaxInputLen {
		return "", &domain.ValidationError{
			Reason: fmt.Sprintf("message text exceeds the %d character limit", s.config.MaxInputLen),
		}
	}
	if req.UserID == "" {
		return "", &domain.ValidationError{Reason: "user_id must not be empty"}
	}
	if len(req.UserID) > s.config.MaxUserIDLen {
		return "", &domain.ValidationError{
			Reason: fmt.Sprintf("user_id exceeds the %d character limit", s.config.MaxUserIDLen),
		}
	}
	mode, ok := domain.ParseMode(req.Mode)
	if !ok {
		return "", &domain.ValidationError{
			Reason: fmt.Sprintf("unknown mode %q (valid: standard, learning, fast)", req.Mode),
		}
	}
	return mode, nil
}
