package domain

// Mode selects the instruction template for a turn. The set is closed;
// adding a mode means adding a template, not a code branch.
type Mode string

const (
	ModeStandard Mode = "standard"
	ModeLearning Mode = "learning"
	ModeFast     Mode = "fast"
)

// Modes lists every valid mode in a fixed order.
var Modes = []Mode{ModeStandard, ModeLearning, ModeFast}

// ParseMode returns the Mode for s, or false if s is not a known mode.
// An empty string defaults to standard.
func ParseMode(s string) (Mode, bool) {
	if s == "" {
		return ModeStandard, true
	}
	for _, m := range Modes {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// Error codes reported in TurnResult.Error.
const (
	ErrCodeValidation = "validation_error"
	ErrCodeBackend    = "backend_error"
	ErrCodeInternal   = "internal_error"
)
