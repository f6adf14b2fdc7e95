package explain

import "fmt"

// InputError reports an invalid request. Raised before any I/O, so a bad
// request never touches the encoder, store, or generation back end.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}
