package mix

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds is returned when a read or seek would run past the end of the buffer.
	ErrOutOfBounds = errors.New("mix: out of bounds")

	// ErrCorruptArchive is returned when a structural invariant of the container is violated.
	ErrCorruptArchive = errors.New("mix: corrupt archive")

	// ErrUnsupportedFormat marks a frame whose pixel encoding tag is not scan-line RLE.
	// It is never returned from a decode call; it only appears in Frame.Err.
	ErrUnsupportedFormat = errors.New("mix: unsupported frame format")
)

// Decode stages reported by DecodeError.
const (
	StageCursor    = "cursor"
	StageDirectory = "directory"
	StageFilename  = "filename"
	StageHeader    = "header"
	StagePalette   = "palette"
	StageFrame     = "frame"
)

// DecodeError pinpoints where a decode failed.
type DecodeError struct {
	Stage  string
	Entry  string // empty for the outer directory
	Offset int    // byte offset within the buffer being decoded
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Entry != "" {
		return fmt.Sprintf("mix: %s %q at offset %d: %v", e.Stage, e.Entry, e.Offset, e.Err)
	}
	return fmt.Sprintf("mix: %s at offset %d: %v", e.Stage, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// stageError re-labels err with stage and entry. Errors coming out of the cursor
// already carry the failing offset, which is kept.
func stageError(stage, entry string, offset int, err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		return &DecodeError{Stage: stage, Entry: entry, Offset: de.Offset, Err: de.Err}
	}
	return &DecodeError{Stage: stage, Entry: entry, Offset: offset, Err: err}
}

func corruptf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrCorruptArchive}, args...)...)
}
