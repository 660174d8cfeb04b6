package lock

import "errors"

// ErrLockTimeout is returned when a room lock cannot be acquired in time.
var ErrLockTimeout = errors.New("room lock acquisition timeout")
