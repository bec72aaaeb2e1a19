package wallpaper

import "github.com/go-faster/errors"

var (
	// ErrInvalidURL is returned when a base URL is not a well-formed absolute URL.
	ErrInvalidURL = errors.New("invalid base url")

	// ErrInvalidResolution is returned when a resolution has a non-positive dimension.
	ErrInvalidResolution = errors.New("invalid resolution")

	// ErrNoMatchingResolution is returned when no catalog entry fits within the
	// requested dimensions.
	ErrNoMatchingResolution = errors.New("no matching resolution in catalog")

	// ErrInvalidDate is returned when an image record carries a date string that
	// does not parse.
	ErrInvalidDate = errors.New("invalid date")
)
