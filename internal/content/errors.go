package content

import "errors"

// ErrMissingTarget is returned when an operation needs a target item id and none is set.
var ErrMissingTarget = errors.New("product ID is required")

// ErrNothingToApply is returned when apply is attempted with an empty ledger.
var ErrNothingToApply = errors.New("no content has been generated to apply")

// ErrInvalidField is returned for unknown field names or fields an operation does not support.
var ErrInvalidField = errors.New("invalid field")

// ErrEmptyContent is returned when a generation succeeds without any content.
// Such a response counts as not generated.
var ErrEmptyContent = errors.New("backend returned no content")
