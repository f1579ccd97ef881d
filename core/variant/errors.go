package variant

import "errors"

var (
	// ErrNoProductSelected is returned by SelectionState before PickProduct.
	ErrNoProductSelected = errors.New("no product selected")

	// ErrUnknownDimension is returned for a type ID outside the schema.
	ErrUnknownDimension = errors.New("attribute type is not a dimension of the product")

	// ErrDimensionLocked is returned when selecting a dimension before every
	// earlier dimension holds a value.
	ErrDimensionLocked = errors.New("earlier dimensions must be selected first")

	// ErrInvalidValue is returned for a non-positive value ID.
	ErrInvalidValue = errors.New("invalid attribute value")

	// ErrSourceUnavailable marks an upstream source that is not configured.
	ErrSourceUnavailable = errors.New("source not configured")

	// ErrUnknownMode is returned by Aggregate for an unsupported mode.
	ErrUnknownMode = errors.New("unknown aggregation mode")
)
