package record

import "errors"

var (
	// ErrInvalidDoi indicates a DOI that does not have exactly one prefix/suffix separator.
	ErrInvalidDoi = errors.New("invalid DOI")

	// ErrPublisherUndetermined indicates no publisher organisation could be resolved,
	// which points at a gap in the reference data rather than bad user input.
	ErrPublisherUndetermined = errors.New("publisher undetermined")

	// ErrInvalidDate indicates a date component out of its calendar range.
	ErrInvalidDate = errors.New("invalid date")

	// ErrUnknownFormat indicates a file whose format cannot be determined.
	ErrUnknownFormat = errors.New("cannot determine format")

	// ErrMissingReference indicates a catalogue slug a builder depends on is not present.
	ErrMissingReference = errors.New("missing reference data")
)
