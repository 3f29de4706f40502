package batchexec

import "errors"

// ErrPartialFailure is returned by Run in ContinueOnError mode when one or
// more items failed; callers should inspect each Result's Err.
var ErrPartialFailure = errors.New("batchexec: one or more items failed")
