package raster

import "errors"

// Errors returned by raster operations and by the adapters built on top of
// them. Callers match them with errors.Is; adapters wrap them with context.
var (
	// ErrInvalidImage is returned when source data handed to the core is
	// malformed or cannot be read.
	ErrInvalidImage = errors.New("raster: invalid image")

	// ErrOutOfMemory is returned when a requested buffer cannot be satisfied,
	// including a caller-provided stride that is smaller than the width.
	ErrOutOfMemory = errors.New("raster: out of memory")

	// ErrUnknownFormat is returned at the I/O boundary for an unrecognized
	// pixel-kind or file format tag.
	ErrUnknownFormat = errors.New("raster: unknown format")

	// ErrDimensionMismatch is returned when an operation that needs
	// equal-sized inputs receives unequal ones.
	ErrDimensionMismatch = errors.New("raster: dimension mismatch")

	// ErrSingularTransform is returned when a transform matrix cannot be
	// inverted.
	ErrSingularTransform = errors.New("raster: singular transform")
)
