package contracts

import (
	"errors"
	"fmt"
)

// ErrGrainViolation is returned when a table that must be unique on its
// declared key contains duplicates. Always fatal: a duplicate key after a
// one-to-one merge means upstream data has an unexpected cardinality that
// would silently double-count consumption or revenue.
var ErrGrainViolation = errors.New("grain violation")

// GrainViolationf wraps ErrGrainViolation with table context.
func GrainViolationf(table string, duplicates int) error {
	return fmt.Errorf("%w: %s has %d duplicate key rows", ErrGrainViolation, table, duplicates)
}
