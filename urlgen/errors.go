package urlgen

import "errors"

// ErrExhausted is returned when no free code was found.
var ErrExhausted = errors.New("no free short code found")
