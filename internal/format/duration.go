package format

import (
	"fmt"
	"time"
)

// FormatExecutionDuration renders d in µs below a millisecond, in ms below a
// second, and with time.Duration's own formatting above that.
func FormatExecutionDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return d.String()
	}
}

// Seconds returns d as fractional seconds, the unit used on the HTTP API.
func Seconds(d time.Duration) float64 {
	return d.Seconds()
}
