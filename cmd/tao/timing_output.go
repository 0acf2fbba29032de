package main

import (
	"fmt"
	"io"
	"strings"

	"tao/internal/driver"
)

// printTimings writes one line per lowered file: the total and every phase.
func printTimings(out io.Writer, results []*driver.Result) {
	if out == nil {
		return
	}
	for _, res := range results {
		if res == nil || len(res.Timing.Phases) == 0 {
			continue
		}
		var b strings.Builder
		b.WriteString(res.Path)
		if res.Cached {
			b.WriteString(" (cached)")
		}
		fmt.Fprintf(&b, ": total %.1f ms", res.Timing.TotalMS)
		for _, p := range res.Timing.Phases {
			fmt.Fprintf(&b, ", %s %.1f ms", p.Name, p.DurationMS)
			if p.Note != "" {
				fmt.Fprintf(&b, " (%s)", p.Note)
			}
		}
		fmt.Fprintln(out, b.String())
	}
}
