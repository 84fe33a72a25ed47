package invalidation

import "errors"

var (
	ErrUnknownKind  = errors.New("invalidation: unknown mutation kind")
	ErrMissingField = errors.New("invalidation: mutation is missing a required field")
)
