package errors

// Code classifies an Error. The values follow the gRPC status names so the
// admin listener can translate them without a lookup table of its own.
type Code string

// Error codes
const (
	CodeOK                 Code = "OK"
	CodeCanceled           Code = "CANCELED"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeDeadlineExceeded   Code = "DEADLINE_EXCEEDED"
	CodeNotFound           Code = "NOT_FOUND"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodeFailedPrecondition Code = "FAILED_PRECONDITION"
	CodeUnimplemented      Code = "UNIMPLEMENTED"
	CodeInternal           Code = "INTERNAL"
	CodeUnavailable        Code = "UNAVAILABLE"
	CodeDataLoss           Code = "DATA_LOSS"
)

// Category is the coarse failure class reported to the orchestrator.
type Category string

// Failure categories
const (
	CategoryNone               Category = ""
	CategoryNotFound           Category = "NotFound"
	CategoryInvalidState       Category = "InvalidState"
	CategoryStorageUnavailable Category = "StorageUnavailable"
	CategoryValidation         Category = "ValidationError"
	CategoryInternal           Category = "Internal"
)

// String returns the string representation of the code
func (c Code) String() string {
	return string(c)
}

// Category maps a code onto the failure class the orchestrator acts on.
// StorageUnavailable is the only category that is safe to retry verbatim.
func (c Code) Category() Category {
	switch c {
	case CodeOK:
		return CategoryNone
	case CodeNotFound:
		return CategoryNotFound
	case CodeFailedPrecondition, CodeAlreadyExists:
		return CategoryInvalidState
	case CodeUnavailable, CodeDeadlineExceeded, CodeCanceled:
		return CategoryStorageUnavailable
	case CodeInvalidArgument:
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// Retryable reports whether repeating the identical operation may succeed.
func (c Code) Retryable() bool {
	return c.Category() == CategoryStorageUnavailable
}
