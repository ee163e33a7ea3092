package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RangeOp is the comparison applied by a Range
type RangeOp int

const (
	RangeLess RangeOp = iota + 1
	RangeGreater
	RangeBetween
)

// Range is a parsed numeric range directive: "<N", ">N" or "N-M".
// Between is inclusive on both ends; a Min greater than Max matches nothing.
type Range struct {
	Op  RangeOp
	Min float64
	Max float64
}

// ParseRange parses a range directive. Values must be non-negative decimals.
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Range{}, fmt.Errorf("%w: empty range", ErrInvalidQuery)
	}

	switch s[0] {
	case '<':
		n, err := parseBound(s[1:])
		if err != nil {
			return Range{}, fmt.Errorf("%w: range %q: %v", ErrInvalidQuery, s, err)
		}
		return Range{Op: RangeLess, Max: n}, nil
	case '>':
		n, err := parseBound(s[1:])
		if err != nil {
			return Range{}, fmt.Errorf("%w: range %q: %v", ErrInvalidQuery, s, err)
		}
		return Range{Op: RangeGreater, Min: n}, nil
	}

	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return Range{}, fmt.Errorf("%w: range %q must be <N, >N or N-M", ErrInvalidQuery, s)
	}
	min, err := parseBound(parts[0])
	if err != nil {
		return Range{}, fmt.Errorf("%w: range %q: %v", ErrInvalidQuery, s, err)
	}
	max, err := parseBound(parts[1])
	if err != nil {
		return Range{}, fmt.Errorf("%w: range %q: %v", ErrInvalidQuery, s, err)
	}
	return Range{Op: RangeBetween, Min: min, Max: max}, nil
}

func parseBound(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("missing number")
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("%q must be a non-negative number", s)
	}
	return n, nil
}

// Empty reports whether the range can never match, e.g. "10-5"
func (r Range) Empty() bool {
	return r.Op == RangeBetween && r.Min > r.Max
}

func (r Range) condition(column string) Condition {
	switch r.Op {
	case RangeLess:
		return Condition{SQL: column + " < ?", Args: []interface{}{r.Max}}
	case RangeGreater:
		return Condition{SQL: column + " > ?", Args: []interface{}{r.Min}}
	default:
		return Condition{SQL: column + " BETWEEN ? AND ?", Args: []interface{}{r.Min, r.Max}}
	}
}
