// Package bounds partitions a physical measurement axis into discrete bins.
package bounds

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/aclements/go-moremath/vec"
)

var ErrInvalid = errors.New("invalid boundary set")

// Range classifies a value against a Set.
type Range int

const (
	Inside Range = iota
	Below
	Above
	// Invalid is reported for NaN, which has no place on the axis.
	Invalid
)

func (r Range) String() string {
	switch r {
	case Inside:
		return "inside"
	case Below:
		return "below"
	case Above:
		return "above"
	case Invalid:
		return "invalid"
	}
	return fmt.Sprintf("Range(%d)", int(r))
}

// Set is an ordered sequence of strictly increasing thresholds. A Set of
// length M defines M-1 half-open bins [s[i], s[i+1]).
type Set []float64

// Validate reports whether s can be used to quantize values.
func (s Set) Validate() error {
	if len(s) < 2 {
		return fmt.Errorf("%w: need at least 2 boundaries, got %d", ErrInvalid, len(s))
	}
	for i, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: boundary %d is %v", ErrInvalid, i, v)
		}
		if i > 0 && v <= s[i-1] {
			return fmt.Errorf("%w: boundary %d (%g) not greater than boundary %d (%g)",
				ErrInvalid, i, v, i-1, s[i-1])
		}
	}
	return nil
}

func (s Set) Bins() int {
	if len(s) < 2 {
		return 0
	}
	return len(s) - 1
}

func (s Set) Min() float64 { return s[0] }

func (s Set) Max() float64 { return s[len(s)-1] }

// Bin returns the index i such that s[i] <= v < s[i+1]. Values below s[0]
// report Below and values at or above the last boundary report Above; the
// index is -1 whenever the range is not Inside.
func (s Set) Bin(v float64) (int, Range) {
	switch {
	case math.IsNaN(v):
		return -1, Invalid
	case v < s[0]:
		return -1, Below
	case v >= s[len(s)-1]:
		return -1, Above
	}
	// First boundary strictly greater than v; the bin starts one before it.
	i := sort.Search(len(s), func(i int) bool { return s[i] > v })
	return i - 1, Inside
}

// Continuous subdivides every bin of s into k equal-width sub-bins. The
// result has (len(s)-1)*k+1 boundaries and each original boundary s[i]
// appears unchanged at index i*k.
func (s Set) Continuous(k int) (Set, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: subdivision count %d", ErrInvalid, k)
	}

	out := make(Set, 0, s.Bins()*k+1)
	for i := 0; i < len(s)-1; i++ {
		seg := vec.Linspace(s[i], s[i+1], k+1)
		seg[0] = s[i]
		out = append(out, seg[:k]...)
	}
	out = append(out, s[len(s)-1])
	return out, nil
}

// Clone returns a copy of s that callers may modify.
func (s Set) Clone() Set {
	return append(Set(nil), s...)
}
