package errors

import "fmt"

// Metadata keys shared across layers
const (
	MetaReason  = "reason"
	MetaBackend = "backend"
	MetaKey     = "key"
	MetaOp      = "op"
)

// Reasons attached to InvalidState errors. Callers branch on these instead of
// parsing messages.
const (
	ReasonEncounterAlreadyActive = "encounter_already_active"
	ReasonNotInEncounter         = "not_in_encounter"
	ReasonUnknownParticipant     = "unknown_participant"
	ReasonSlotOccupied           = "slot_occupied"
	ReasonInsufficientFunds      = "insufficient_funds"
	ReasonNoSlotAvailable        = "no_slot_available"
	ReasonSpellNotPrepared       = "spell_not_prepared"
	ReasonNoHitDice              = "no_hit_dice"
	ReasonFeatureExhausted       = "feature_exhausted"
	ReasonNoLivingParticipants   = "no_living_participants"
	ReasonReservedCampaignID     = "reserved_campaign_id"
	ReasonCharacterDead          = "character_dead"
	ReasonNotDying               = "not_dying"
)

// InvalidState creates a failed precondition error tagged with reason
func InvalidState(reason, message string) *Error {
	return FailedPrecondition(message).WithReason(reason)
}

// InvalidStatef creates a failed precondition error tagged with reason and a formatted message
func InvalidStatef(reason, format string, args ...interface{}) *Error {
	return InvalidState(reason, fmt.Sprintf(format, args...))
}

// StorageUnavailable wraps a backend failure as a retryable error. Callers
// attach the key with WithMeta(MetaKey, ...).
func StorageUnavailable(cause error, backend, op string) *Error {
	if cause == nil {
		return nil
	}
	return WrapWithCodef(cause, CodeUnavailable, "%s %s failed", backend, op).
		WithMeta(MetaBackend, backend).
		WithMeta(MetaOp, op)
}

// Reason returns the reason metadata of err, or "" when none is attached.
func Reason(err error) string {
	reason, _ := GetMeta(err)[MetaReason].(string)
	return reason
}

// HasReason reports whether err carries the given reason.
func HasReason(err error, reason string) bool {
	return err != nil && Reason(err) == reason
}
