package usage

import "math"

// NearLimitPercent is the usage percentage above which a child is shown as
// close to their limit.
const NearLimitPercent = 80

// UsagePercentage returns usage as a percentage of limit, capped at 100.
// A limit of zero or less means "unset" and yields 0. The result is not rounded.
func UsagePercentage(usage, limit int) float64 {
	if limit <= 0 {
		return 0
	}
	return math.Min(float64(usage)/float64(limit)*100, 100)
}

// IsNearLimit reports whether percent is above NearLimitPercent.
func IsNearLimit(percent float64) bool {
	return percent > NearLimitPercent
}

// RoundPercent rounds a percentage for display.
func RoundPercent(percent float64) int {
	return int(math.Round(percent))
}
