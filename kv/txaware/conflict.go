package txaware

import (
	"strings"

	"github.com/pingcap/errors"
)

// ConflictDetection is the granularity at which write-write conflicts are detected. It is fixed when a table is
// created.
type ConflictDetection int

const (
	// ConflictDetectionNone disables change tracking for conflict detection entirely.
	ConflictDetectionNone ConflictDetection = iota
	// ConflictDetectionRow reports one change key per (table, row).
	ConflictDetectionRow
	// ConflictDetectionColumn reports one change key per (table, family, qualifier, row).
	ConflictDetectionColumn
)

func (c ConflictDetection) String() string {
	switch c {
	case ConflictDetectionNone:
		return "none"
	case ConflictDetectionRow:
		return "row"
	case ConflictDetectionColumn:
		return "column"
	}
	return "unknown"
}

func (c ConflictDetection) valid() bool {
	return c >= ConflictDetectionNone && c <= ConflictDetectionColumn
}

// ParseConflictDetection parses "none", "row" or "column", case insensitively.
func ParseConflictDetection(s string) (ConflictDetection, error) {
	switch strings.ToLower(s) {
	case "none":
		return ConflictDetectionNone, nil
	case "row":
		return ConflictDetectionRow, nil
	case "column":
		return ConflictDetectionColumn, nil
	}
	return ConflictDetectionNone, errors.Errorf("unknown conflict detection level %q", s)
}
