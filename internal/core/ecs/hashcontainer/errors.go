package hashcontainer

import "errors"

// ErrDuplicate is returned when adding a type that is already present in
// the container.
var ErrDuplicate = errors.New("hashcontainer: type already present")
