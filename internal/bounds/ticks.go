package bounds

import (
	"fmt"
	"math"
)

// Tick is a labelled position on a colorbar axis.
type Tick struct {
	Value float64
	Label string
}

// decade returns the exponent e with 10^e <= v < 10^(e+1). The small bias
// keeps exact powers of ten from landing one decade low.
func decade(v float64) int {
	return int(math.Floor(math.Log10(v) + 1e-9))
}

// LogTicks labels a positive boundary set on a logarithmic axis. Minor ticks
// carry the mantissa of each boundary ("1.0", "1.5", "3.0"), major ticks the
// exponent of every decade in range.
func LogTicks(s Set) (minor, major []Tick, err error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}
	if s[0] <= 0 {
		return nil, nil, fmt.Errorf("%w: log axis needs positive boundaries, got %g", ErrInvalid, s[0])
	}

	for _, v := range s {
		m := v / math.Pow(10, float64(decade(v)))
		minor = append(minor, Tick{Value: v, Label: fmt.Sprintf("%.1f", m)})
	}
	for e := decade(s.Min()); e <= decade(s.Max()); e++ {
		v := math.Pow(10, float64(e))
		if v < s.Min()*(1-1e-9) || v > s.Max()*(1+1e-9) {
			continue
		}
		major = append(major, Tick{Value: v, Label: fmt.Sprintf("×10^%d", e)})
	}
	return minor, major, nil
}
