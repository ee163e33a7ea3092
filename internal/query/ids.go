package query

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseIDs parses a comma-separated list of positive integer ids.
// Blank entries are skipped; duplicates are kept in first-seen order only once.
func ParseIDs(s string) ([]uint, error) {
	var ids []uint
	seen := make(map[uint]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.ParseUint(part, 10, 32)
		if err != nil || n == 0 {
			return nil, fmt.Errorf("%w: %q is not a valid id", ErrInvalidQuery, part)
		}
		id := uint(n)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}
