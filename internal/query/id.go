package query

import (
	"fmt"

	"github.com/google/uuid"
)

// ParseID validates an entity identifier supplied as a scoping parameter.
// A malformed id fails with ErrInvalidArgument; whether the entity exists is
// a separate question answered by the store.
func ParseID(s string) (string, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: malformed id %q", ErrInvalidArgument, s)
	}
	return id.String(), nil
}
