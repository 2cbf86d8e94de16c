package subtitle

import (
	"fmt"
	"math"
	"strings"
)

const zeroTimestamp = "00:00:00,000"

// FormatTimestamp renders seconds as HH:MM:SS,mmm. The seconds component
// keeps its fraction and is rounded to milliseconds by the %06.3f verb.
func FormatTimestamp(seconds float64) string {
	hours := int(math.Floor(seconds / 3600))
	minutes := int(math.Floor(math.Mod(seconds, 3600) / 60))
	secs := math.Mod(seconds, 60)

	stamp := fmt.Sprintf("%02d:%02d:%06.3f", hours, minutes, secs)
	return strings.ReplaceAll(stamp, ".", ",")
}

// FormatOptionalTimestamp is FormatTimestamp with nil mapped to zero.
func FormatOptionalTimestamp(seconds *float64) string {
	if seconds == nil {
		return zeroTimestamp
	}
	return FormatTimestamp(*seconds)
}
