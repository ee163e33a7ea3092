package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page is a 1-based page number and page size
type Page struct {
	Number int
	Limit  int
}

// DefaultPageSpec returns page 1 with the default size
func DefaultPageSpec() Page {
	return Page{Number: DefaultPage, Limit: DefaultLimit}
}

// Offset converts the page into a row offset
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// ParsePage parses page and limit query values. Empty values take the defaults,
// limits above MaxLimit are capped. Pages whose row offset does not fit in an
// int are rejected.
func ParsePage(page, limit string) (Page, error) {
	p := DefaultPageSpec()

	if v := strings.TrimSpace(page); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Page{}, fmt.Errorf("%w: page must be a positive integer", ErrInvalidQuery)
		}
		p.Number = n
	}
	if v := strings.TrimSpace(limit); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Page{}, fmt.Errorf("%w: limit must be a positive integer", ErrInvalidQuery)
		}
		if n > MaxLimit {
			n = MaxLimit
		}
		p.Limit = n
	}
	if p.Number-1 > math.MaxInt/p.Limit {
		return Page{}, fmt.Errorf("%w: page is out of range", ErrInvalidQuery)
	}
	return p, nil
}
