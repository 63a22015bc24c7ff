package scene

import (
	"fmt"

	"github.com/pkg/errors"
)

// NotFoundError is returned when a name or path lookup misses the graph index.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("node %q not found", e.Name)
}

// InvariantViolation marks a programmer error detected while building or walking a graph:
// cycles, shared sub-nodes, broken mesh data, unbalanced stacks.
type InvariantViolation struct {
	Reason string
}

func (e *InvariantViolation) Error() string {
	return "invariant violation: " + e.Reason
}

func Violationf(format string, a ...interface{}) error {
	return &InvariantViolation{Reason: fmt.Sprintf(format, a...)}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsInvariantViolation(err error) bool {
	var iv *InvariantViolation
	return errors.As(err, &iv)
}
