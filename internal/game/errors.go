package game

import (
	"errors"
	"fmt"
)

// ErrorCode names the failure class carried on engine errors. The codes are
// part of the wire contract: every rejected action emits an ERROR_OCCURRED
// event tagged with one of these.
type ErrorCode string

const (
	// Placement errors.
	ErrCodeInvalidPosition        ErrorCode = "INVALID_POSITION"
	ErrCodeInvalidCardIndex       ErrorCode = "INVALID_CARD_INDEX"
	ErrCodeCardNotFound           ErrorCode = "CARD_NOT_FOUND"
	ErrCodeZoneOccupied           ErrorCode = "ZONE_OCCUPIED"
	ErrCodeCardTypeZone           ErrorCode = "CARD_TYPE_ZONE"
	ErrCodePhaseRestriction       ErrorCode = "PHASE_RESTRICTION"
	ErrCodeSPPhaseRestriction     ErrorCode = "SP_PHASE_RESTRICTION"
	ErrCodeZoneCompatibility      ErrorCode = "ZONE_COMPATIBILITY"
	ErrCodeFieldEffectRestriction ErrorCode = "FIELD_EFFECT_RESTRICTION"

	// Selection errors.
	ErrCodeInvalidSelection      ErrorCode = "INVALID_SELECTION"
	ErrCodeSelectionCount        ErrorCode = "INVALID_SELECTION_COUNT"
	ErrCodeSelectionCard         ErrorCode = "INVALID_SELECTION_CARD"
	ErrCodeSelectionUnauthorized ErrorCode = "SELECTION_UNAUTHORIZED"
	ErrCodeSelectionTimeout      ErrorCode = "CARD_SELECTION_TIMEOUT"

	// Gate errors.
	ErrCodeSelectionPending  ErrorCode = "CARD_SELECTION_PENDING"
	ErrCodeWaitingForPlayer  ErrorCode = "WAITING_FOR_PLAYER"

	// Structural errors.
	ErrCodeInvalidActionType ErrorCode = "INVALID_ACTION_TYPE"
	ErrCodeGameNotFound      ErrorCode = "GAME_NOT_FOUND"
	ErrCodeInvalidPhase      ErrorCode = "INVALID_PHASE"

	// Simulator corruption (fatal for the game instance).
	ErrCodeSequenceCorrupt ErrorCode = "SEQUENCE_CORRUPT"
)

// EngineError is a typed engine failure carrying its taxonomy code.
type EngineError struct {
	Code    ErrorCode
	Message string
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Errf builds an EngineError with a formatted message.
func Errf(code ErrorCode, format string, args ...any) *EngineError {
	return &EngineError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the error code, or "" for non-engine errors.
func CodeOf(err error) ErrorCode {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ""
}

// IsFatal reports whether the error signals corrupted state; a fatal error
// means the game instance must refuse further actions.
func IsFatal(err error) bool {
	return CodeOf(err) == ErrCodeSequenceCorrupt
}
