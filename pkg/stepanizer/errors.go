// Package stepanizer defines the error kinds shared across the
// STEPanizerizer pipeline packages. Callers classify failures with
// errors.Is against these sentinels; the wrapping messages carry the
// specifics.
package stepanizer

import "errors"

var (
	// ErrNotFound indicates a missing or empty input: a slice
	// directory without eligible images, or a scan log without the
	// expected entry.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument indicates an out-of-range parameter, such as
	// a sample size larger than the stack or a non-positive voxel size.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrIO indicates a read, decode, encode or write failure. All
	// I/O errors are fatal to a run; there is no retry.
	ErrIO = errors.New("i/o failure")
)
