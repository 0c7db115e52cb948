// Package errors provides the coded error type shared by every layer of the
// campaign server.
//
// Each Error carries a Code, a user facing message, an optional cause and a
// metadata map. Codes collapse into five categories that tool callers act on:
//
//	NotFound            the referenced record or participant does not exist
//	InvalidState        a state guard refused the operation (meta "reason")
//	StorageUnavailable  the backend failed; the same call may be retried
//	ValidationError     the input was malformed; nothing was changed
//	Internal            anything else
//
// Creating errors:
//
//	err := errors.NotFoundf("character %s not found", campaignID)
//	err := errors.InvalidState(errors.ReasonSlotOccupied, "main_hand is occupied").
//	    WithMeta("slot", "main_hand")
//
// Storage backends wrap I/O failures:
//
//	return errors.StorageUnavailable(err, "disk", "get").WithMeta(errors.MetaKey, key)
//
// Orchestrators validate input with the builder:
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRange("level", input.Level, 1, 20, vb)
//	if err := vb.Build(); err != nil {
//	    return nil, err
//	}
//
// Callers branch on category and reason, never on message text:
//
//	if errors.HasReason(err, errors.ReasonNoSlotAvailable) { ... }
package errors
