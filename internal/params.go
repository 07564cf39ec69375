package internal

import (
	"errors"
	"strconv"
)

// parseID parses a numeric path parameter. Only non-numeric values are
// rejected here; well-formed ids that match no row get the store's
// not-found treatment instead.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.New("id must be an integer")
	}
	return id, nil
}
