package slidemap

import (
	"fmt"
	"strings"
)

// Warning describes a non-fatal problem encountered during analysis.
// Analysis continues past warnings; the affected page simply contributes
// less (or nothing) to the result.
type Warning struct {
	// Page is the 1-indexed page the warning applies to, or 0 for
	// document-level warnings
	Page int

	// Message describes the problem
	Message string
}

func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("page %d: %s", w.Page, w.Message)
	}
	return w.Message
}

// FormatWarnings joins warnings into a single human-readable string.
//
// Example:
//
//	mapping, warnings, err := slidemap.Open("report.pdf").Mapping()
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", slidemap.FormatWarnings(warnings))
//	}
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}

	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}
