package exobuild

import (
	"fmt"
	"strings"
	"time"
)

// renderReport turns a finalized session into the end-of-run summary.
// Presentation only: the session is never altered here.
func renderReport(s *Session) string {
	var b strings.Builder

	successes := s.Successes()
	failures := s.Failures()

	b.WriteString("\n")
	b.WriteString(colArrow.Sprint("-> "))
	b.WriteString(colNote.Sprintf("Build summary: %d target(s) attempted\n", len(s.Results)))

	if len(successes) > 0 {
		b.WriteString(colSuccess.Sprintf("  %d succeeded:\n", len(successes)))
		for _, r := range successes {
			b.WriteString(colSuccess.Sprintf("    %-12s %8s  %s  (%s)\n",
				r.Target.Arch,
				r.Outcome.Duration.Truncate(10 * time.Millisecond),
				r.Target.AliasPath(),
				humanSize(r.Outcome.ArtifactSize)))
		}
	}

	if len(failures) > 0 {
		b.WriteString(colError.Sprintf("  %d failed:\n", len(failures)))
		for _, r := range failures {
			line := fmt.Sprintf("    %-12s %s", r.Target.Arch, r.Outcome.Reason)
			if r.Outcome.LogPath != "" {
				line += fmt.Sprintf("  (log: %s)", r.Outcome.LogPath)
			}
			b.WriteString(colError.Sprint(line + "\n"))
		}
	}

	b.WriteString(colNote.Sprintf("  total time: %s\n", s.TotalDuration().Truncate(10 * time.Millisecond)))
	return b.String()
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
