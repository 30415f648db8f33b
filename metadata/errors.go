package metadata

import "errors"

// Load errors. A Load failure is always atomic: no partial Registry is
// ever returned alongside a non-nil error.
var (
	ErrVersionMismatch      = errors.New("metadata: blob version is not supported by this build")
	ErrTruncated            = errors.New("metadata: blob is truncated")
	ErrDuplicateToken       = errors.New("metadata: token table contains a duplicate entry")
	ErrBadTokenIndex        = errors.New("metadata: token index out of range")
	ErrBadMatcherIndex      = errors.New("metadata: matcher pool index out of range")
	ErrDuplicateDefault     = errors.New("metadata: value matcher's default value also appears as an explicit key")
	ErrConflictingRegion001 = errors.New("metadata: region \"001\" coexists with a standard region in the same calling code")
)
