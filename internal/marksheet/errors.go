package marksheet

import (
	"fmt"
	"strings"
)

// DuplicateKeyError reports two schema inputs that map to the same key.
type DuplicateKeyError struct {
	Key    string
	First  string
	Second string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %q: %s collides with %s", e.Key, e.Second, e.First)
}

// DocumentError lists structural problems found in a schema document.
type DocumentError struct {
	Problems []string
}

func (e *DocumentError) Error() string {
	return "invalid marksheet schema: " + strings.Join(e.Problems, "; ")
}
