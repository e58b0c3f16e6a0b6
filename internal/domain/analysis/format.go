package analysis

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// FormatNumber renders a fact value for prompts and reports. Magnitudes >= 1
// get thousand separators and 2 decimals; smaller values keep 4 decimals so
// rates near zero stay legible.
func FormatNumber(v float64) string {
	if v >= 1 || v <= -1 {
		return humanize.FormatFloat("#,###.##", v)
	}
	return fmt.Sprintf("%.4f", v)
}
