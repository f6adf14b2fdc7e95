package generate

import "fmt"

// Error kinds, classifying why a generation request failed.
const (
	KindAuth      = "auth"
	KindTimeout   = "timeout"
	KindRateLimit = "rate_limit"
	KindUnknown   = "unknown"
)

// Error is a typed generation failure. Kind lets callers distinguish
// configuration problems (auth) from transient ones (timeout, rate_limit)
// without string matching.
type Error struct {
	Kind    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation %s error: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("generation %s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// newError builds an Error with the given kind.
func newError(kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}
