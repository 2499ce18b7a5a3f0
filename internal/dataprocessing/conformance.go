package dataprocessing

import (
	"strings"

	"safetypulse/pkg/contracts/domain"
)

// Response sentinels, compared case-insensitively
const (
	AffirmativeResponse = "sim"
	NegativeResponse    = "não"
)

// IsAffirmative reports whether a response is the affirmative sentinel
func IsAffirmative(response string) bool {
	return strings.EqualFold(response, AffirmativeResponse)
}

// MentionsAffirmative reports whether a response contains the affirmative
// sentinel anywhere, ignoring case. Per-transaction conformance counts
// answers such as "Sim, parcial" this way.
func MentionsAffirmative(response string) bool {
	return strings.Contains(strings.ToLower(response), AffirmativeResponse)
}

// IsNegative reports whether a response is the negative sentinel
func IsNegative(response string) bool {
	return strings.EqualFold(response, NegativeResponse)
}

// ConformanceRate is the share of affirmative responses among affirmative and
// negative ones, as a percentage. Any other response is ignored.
func ConformanceRate(rows []domain.NormalizedRow) domain.Conformance {
	var c domain.Conformance
	for _, row := range rows {
		switch {
		case IsAffirmative(row.ResponseValue):
			c.AffirmativeCount++
		case IsNegative(row.ResponseValue):
			c.NegativeCount++
		}
	}

	if total := c.AffirmativeCount + c.NegativeCount; total > 0 {
		c.Rate = float64(c.AffirmativeCount) / float64(total) * 100
	}
	return c
}
