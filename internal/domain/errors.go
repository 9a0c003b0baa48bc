package domain

import (
	"errors"
	"fmt"
)

var (
	ErrKeyNotFound     = errors.New("avatar key not found")
	ErrMalformedAsset  = errors.New("malformed asset")
	ErrUnknownCategory = errors.New("unknown category")
)

// OutOfRangeError reports a selection index outside [0, Max] for Category.
type OutOfRangeError struct {
	Category Category
	Index    int
	Max      int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("invalid %s index %d: must be between 0 and %d", e.Category, e.Index, e.Max)
}

// IsOutOfRange unwraps err into an *OutOfRangeError.
func IsOutOfRange(err error) (*OutOfRangeError, bool) {
	var oor *OutOfRangeError
	if errors.As(err, &oor) {
		return oor, true
	}
	return nil, false
}
