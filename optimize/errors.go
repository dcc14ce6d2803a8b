package optimize

import "errors"

// ErrUnknownStrategy is returned when a strategy name does not match
// any implemented selection strategy.
var ErrUnknownStrategy = errors.New("unknown optimization strategy")
