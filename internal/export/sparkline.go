package export

import "strings"

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders values as unicode blocks scaled between their min and max.
// A flat series renders at the lowest level.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	var b strings.Builder
	span := hi - lo
	top := len(sparkBlocks) - 1
	for _, v := range values {
		idx := 0
		if span > 0 {
			idx = int((v - lo) / span * float64(top))
		}
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}
