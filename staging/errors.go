package staging

import "errors"

var (
	// ErrTransferFailed indicates the staged output could not be published
	// to the destination.
	ErrTransferFailed = errors.New("staging: transfer failed")
)
