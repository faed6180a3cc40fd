package scheduling

import (
	"errors"
	"fmt"
)

// Error codes for the scheduling engine. Handlers map these onto HTTP
// statuses; callers branch on them to decide whether a retry makes sense.
const (
	CodeInvalidRequest  = "invalidRequest"  // malformed input, rejected before any lock is taken
	CodeInvalidInterval = "invalidInterval" // availability submission violates interval rules
	CodeSlotUnavailable = "slotUnavailable" // lost race or stale availability; re-fetch and retry
	CodeNotFound        = "notFound"        // missing or already-terminal appointment
	CodeTryAgain        = "tryAgain"        // lock wait timed out; the identical request may be retried
)

// Error is the engine's typed error.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// HasCode reports whether err is an engine error with the given code.
func HasCode(err error, code string) bool {
	var se *Error
	return errors.As(err, &se) && se.Code == code
}
