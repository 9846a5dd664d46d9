package generator

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the generation pipeline. Callers match them
// with errors.Is, typically through a SheetError wrapper.
var (
	// ErrNoRows means the sheet holds no data rows below the header.
	ErrNoRows = errors.New("generator: sheet has no rows")

	// ErrOptionSetsNotLoaded means a row references an option set but the
	// generator was built without an option set table.
	ErrOptionSetsNotLoaded = errors.New("generator: option sets not loaded")
)

// SheetError wraps a failure with the sheet it occurred on so batch callers
// can keep processing the remaining sheets and still report precisely.
type SheetError struct {
	Sheet string
	Err   error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("generator: sheet %q: %v", e.Sheet, e.Err)
}

func (e *SheetError) Unwrap() error { return e.Err }
