package bounds

import (
	"fmt"
	"sort"
)

// SubdivisionsPerBin is the number of sub-bins each discrete backscatter bin
// is split into for the continuous-looking backscatter map.
const SubdivisionsPerBin = 15

var (
	BackscatterDiscrete = Set{
		1e-5,
		1e-4, 3e-4, 6e-4,
		1e-3, 1.5e-3, 2e-3, 3e-3, 4e-3, 5e-3, 6e-3, 8e-3,
		1e-2, 1.5e-2, 2e-2, 3e-2, 5e-2,
	}

	DepolarizationDiscrete = Set{0.0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6}

	ColorRatioDiscrete = Set{0.0, 0.2, 0.4, 0.6, 0.8, 1.0, 1.2, 1.4}

	// ColorRatio9 belongs to the count-named generation of presets, whose
	// color ratio axis runs to 1.6 with the same seven bins.
	ColorRatio9 = Set{0.0, 0.2, 0.4, 0.6, 0.8, 1.0, 1.2, 1.6}

	BackscatterContinuous = mustContinuous(BackscatterDiscrete, SubdivisionsPerBin)
)

var presets = map[string]Set{
	"backscatter_discrete":    BackscatterDiscrete,
	"backscatter_continuous":  BackscatterContinuous,
	"depolarization_discrete": DepolarizationDiscrete,
	"colorratio_discrete":     ColorRatioDiscrete,

	"backscatter_18":  BackscatterDiscrete,
	"backscatter_242": BackscatterContinuous,
	"depol_8":         DepolarizationDiscrete,
	"colorratio_9":    ColorRatio9,
}

func mustContinuous(s Set, k int) Set {
	c, err := s.Continuous(k)
	if err != nil {
		panic(fmt.Sprintf("bounds: %v", err))
	}
	return c
}

// Preset returns a copy of the named boundary set.
func Preset(name string) (Set, bool) {
	s, ok := presets[name]
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
