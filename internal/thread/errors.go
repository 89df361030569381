package thread

import (
	"errors"
	"fmt"
)

// ErrDuplicateID is matched by every DuplicateIDError
var ErrDuplicateID = errors.New("duplicate artifact id")

// DuplicateIDError is returned by Build when two input artifacts share an id.
// First and Second are the input positions of the colliding artifacts.
type DuplicateIDError struct {
	ID     string
	First  int
	Second int
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate artifact id %q at positions %d and %d", e.ID, e.First, e.Second)
}

// Is reports whether target is ErrDuplicateID
func (e *DuplicateIDError) Is(target error) bool {
	return target == ErrDuplicateID
}
