package panel

import (
	"fmt"

	"feemeter/internal/core/billing"
	"feemeter/internal/ui/preferences"
)

// FormatClock renders seconds as HH:MM:SS. Hours keep counting past 99.
func FormatClock(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// FeeText renders the current fee line.
func FeeText(fee float64, policy billing.RoundingPolicy) string {
	return "Current fee: ¥" + billing.FormatAmount(fee, policy)
}

// RateText renders the configured rate line.
func RateText(rate float64) string {
	return "Rate: ¥" + preferences.FormatRate(rate) + "/min"
}
