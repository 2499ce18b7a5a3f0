package domain

import (
	"math"
	"strconv"
	"strings"
)

// ParseWeight reads a locale-formatted decimal such as "3,5" as 3.5.
// The whole trimmed value must be a number: empty, unparseable or
// suffixed input such as "3,5 kg" yields 0.
func ParseWeight(raw string) float64 {
	v, _ := LookupWeight(raw)
	return v
}

// LookupWeight is ParseWeight that also reports whether raw held a number
func LookupWeight(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// WeightValue is the row's weight as a number
func (r NormalizedRow) WeightValue() float64 {
	return ParseWeight(r.Weight)
}
