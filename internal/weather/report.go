package weather

import (
	"fmt"
	"io"
	"strings"
)

// WriteSummary prints the human-readable tropical-nights summary.
func WriteSummary(w io.Writer, summaries []YearStats) error {
	var b strings.Builder

	fmt.Fprintf(&b, "\nTropical Nights Summary (min_temp >= %g°C):\n", TropicalThreshold)
	b.WriteString(strings.Repeat("=", 50))
	b.WriteString("\n")

	for _, s := range summaries {
		fmt.Fprintf(&b, "%d: %d tropical nights\n", s.Year, s.TropicalNights)
		if s.HottestTropical != nil {
			fmt.Fprintf(&b, "  → Hottest: %s (%.1f°C)\n", s.HottestTropical.Date, s.HottestTropical.MinTemp)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
