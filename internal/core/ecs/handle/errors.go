package handle

import "errors"

// ErrExpired is returned by Weak.Lock when the cell's last Strong owner has
// already released it.
var ErrExpired = errors.New("handle: weak reference has expired")
