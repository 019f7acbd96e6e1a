// Package billing converts elapsed running time into a fee.
package billing

import (
	"fmt"
	"math"
	"strings"
)

// RoundingPolicy selects how a fee is presented.
type RoundingPolicy string

const (
	// RoundFloor truncates the fee to a whole amount.
	RoundFloor RoundingPolicy = "floor"
	// RoundTwoDecimals rounds the fee half away from zero to two decimals.
	RoundTwoDecimals RoundingPolicy = "two_decimals"
)

// Fee returns the exact fee for elapsedSeconds at ratePerMinute, i.e.
// (elapsedSeconds / 60) * ratePerMinute. The rate is not validated: a zero
// rate yields zero and a negative rate a negative fee.
func Fee(elapsedSeconds int, ratePerMinute float64) float64 {
	// Multiplying first keeps whole-number results exact.
	return float64(elapsedSeconds) * ratePerMinute / 60
}

// Round applies policy to amount. Unknown policies leave amount untouched.
func Round(amount float64, policy RoundingPolicy) float64 {
	switch policy {
	case RoundFloor:
		return math.Floor(amount)
	case RoundTwoDecimals:
		return math.Round(amount*100) / 100
	default:
		return amount
	}
}

// FormatAmount renders amount under policy: "150" for floor, "150.00" for two
// decimals.
func FormatAmount(amount float64, policy RoundingPolicy) string {
	rounded := Round(amount, policy)
	if policy == RoundFloor {
		return fmt.Sprintf("%.0f", rounded)
	}
	return fmt.Sprintf("%.2f", rounded)
}

// ParseRoundingPolicy accepts the names used in settings files.
func ParseRoundingPolicy(value string) (RoundingPolicy, error) {
	switch policy := RoundingPolicy(strings.ToLower(strings.TrimSpace(value))); policy {
	case RoundFloor, RoundTwoDecimals:
		return policy, nil
	default:
		return "", fmt.Errorf("unknown rounding policy %q", value)
	}
}
