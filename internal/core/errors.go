// Package core defines sentinel errors.
package core

import "errors"

var (
	// Frame decoding errors. Every one of them drops the current frame only.
	ErrTruncated   = errors.New("netsniff: frame truncated")
	ErrInvalidSize = errors.New("netsniff: frame size out of buffer range")

	// ErrNotIPv4 is not a failure: the frame is valid but out of scope.
	ErrNotIPv4 = errors.New("netsniff: not an IPv4 frame")

	// Capture errors are fatal to the run.
	ErrCapture             = errors.New("netsniff: capture source failed")
	ErrUnsupportedPlatform = errors.New("netsniff: capture not supported on this platform")

	// Configuration errors
	ErrInvalidMode   = errors.New("netsniff: invalid filter mode")
	ErrConfigInvalid = errors.New("netsniff: invalid configuration")
)
