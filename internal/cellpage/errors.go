package cellpage

import "errors"

// errNotEnoughCapacity is returned by CloneInto/CloneRowInto when the
// destination page's capacity cannot hold the source content; callers
// treat this as a programming error (the page list always sizes the
// destination before cloning), not a recoverable runtime condition.
var errNotEnoughCapacity = errors.New("cellpage: destination capacity too small for clone")
