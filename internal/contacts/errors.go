package contacts

import "errors"

var (
	// ErrUnknownSource is returned for a source name no adapter handles.
	ErrUnknownSource = errors.New("unknown contacts source")

	// ErrMissingCredentials is returned when a run lacks the input its source needs.
	ErrMissingCredentials = errors.New("missing credentials for contacts source")
)
