package stylus

import (
	"fmt"
	"strings"
)

// Warning is a non-fatal problem encountered during conversion. The
// conversion still produced output; the warning explains what degraded.
type Warning struct {
	// Page is the 1-based page the warning applies to, or 0 when it
	// concerns the document as a whole.
	Page    int
	Message string
}

func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("page %d: %s", w.Page, w.Message)
	}
	return w.Message
}

// FormatWarnings renders warnings as a single newline-separated string
// for logging.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}

// wrapWarnings converts the string warnings the pipeline stages emit
// into Warnings, recovering the page number from the conventional
// "page N:" prefix when present.
func wrapWarnings(msgs []string) []Warning {
	if len(msgs) == 0 {
		return nil
	}
	warnings := make([]Warning, 0, len(msgs))
	for _, m := range msgs {
		var page int
		var rest string
		if n, err := fmt.Sscanf(m, "page %d: %s", &page, &rest); err == nil && n == 2 {
			idx := strings.Index(m, ": ")
			warnings = append(warnings, Warning{Page: page, Message: m[idx+2:]})
			continue
		}
		warnings = append(warnings, Warning{Message: m})
	}
	return warnings
}
