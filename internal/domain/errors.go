package domain

import "errors"

var (
	// ErrInsufficientContent is returned when the question bank cannot fill a round.
	ErrInsufficientContent = errors.New("question bank has too few entries")
	// ErrInvalidBankEntry indicates a malformed bank entry (option count, answer index, ids).
	ErrInvalidBankEntry = errors.New("invalid question bank entry")
	// ErrLifelineUnavailable is returned when a lifeline was already used or the phase forbids it.
	ErrLifelineUnavailable = errors.New("lifeline unavailable")
	// ErrInvalidState is returned when a command is issued in the wrong phase.
	ErrInvalidState = errors.New("command not valid in current state")
	// ErrUnknownOption indicates an option id that is not part of the current question.
	ErrUnknownOption = errors.New("option not found in current question")
	// ErrSessionNotFound is returned when a player has no running game.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrUnsupportedLanguage is returned for language codes other than es/en.
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// ErrorCode maps known errors to stable identifiers for clients.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInsufficientContent):
		return "insufficient_content"
	case errors.Is(err, ErrInvalidBankEntry):
		return "invalid_bank_entry"
	case errors.Is(err, ErrLifelineUnavailable):
		return "lifeline_unavailable"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrUnknownOption):
		return "unknown_option"
	case errors.Is(err, ErrSessionNotFound):
		return "session_not_found"
	case errors.Is(err, ErrUnsupportedLanguage):
		return "unsupported_language"
	default:
		return "internal"
	}
}
