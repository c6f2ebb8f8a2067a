package directions

import (
	"fmt"
	"math"
)

const metersPerMile = 1609.344

// formatDistance renders meters the way the Google Directions API does for
// imperial units ("0.3 mi", "12.4 mi", "125 mi").
func formatDistance(meters int) string {
	miles := float64(meters) / metersPerMile
	switch {
	case miles < 0.1:
		return fmt.Sprintf("%d ft", int(math.Round(float64(meters)*3.28084)))
	case miles < 100:
		return fmt.Sprintf("%.1f mi", miles)
	default:
		return fmt.Sprintf("%d mi", int(math.Round(miles)))
	}
}

// formatDuration renders seconds as "1 min", "25 mins", "1 hour 5 mins".
func formatDuration(seconds int) string {
	mins := int(math.Round(float64(seconds) / 60))
	if mins < 1 {
		mins = 1
	}
	h, m := mins/60, mins%60

	plural := func(n int, unit string) string {
		if n == 1 {
			return fmt.Sprintf("%d %s", n, unit)
		}
		return fmt.Sprintf("%d %ss", n, unit)
	}

	switch {
	case h == 0:
		return plural(m, "min")
	case m == 0:
		return plural(h, "hour")
	default:
		return plural(h, "hour") + " " + plural(m, "min")
	}
}
