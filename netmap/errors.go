package netmap

import "errors"

// ErrResourceUnavailable is returned when a shared resource cannot be
// resolved to a local handle and no temporary mapping could be created.
var ErrResourceUnavailable = errors.New("netmap: shared resource unavailable")
