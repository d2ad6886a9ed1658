package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fbkclanna/depcheck/internal/ui"
)

// WriteText prints the report in the console format: conflict lines, the
// conflict summary, the global usage summary, then one line per unused
// dependency.
func WriteText(w io.Writer, r *Report, st ui.Styles) error {
	var b strings.Builder

	for _, c := range r.Conflicts {
		b.WriteString(st.Bad(ConflictLine(c)) + "\n")
	}
	b.WriteString(conflictSummary(r.TotalConflicts, st) + "\n")
	b.WriteString(globalSummary(r.UnusedGlobals, r.Threshold, st) + "\n")
	for _, u := range r.UnusedDependencies {
		b.WriteString(st.Bad(UnusedLine(u)) + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// ConflictLine formats a single conflict.
func ConflictLine(c ConflictRecord) string {
	return fmt.Sprintf("Conflict of %s in %s", c.Dependency, c.Label)
}

// UnusedLine formats a single unused dependency.
func UnusedLine(u UnusedDependencyRecord) string {
	return fmt.Sprintf("%s appear to not use the %s dependency", u.Package, u.Dependency)
}

func conflictSummary(total int, st ui.Styles) string {
	switch total {
	case 0:
		return st.Good("No conflicts")
	case 1:
		return st.Bad("There was 1 conflict")
	default:
		return st.Bad(fmt.Sprintf("There were %d conflicts", total))
	}
}

func globalSummary(unused []UnusedGlobalRecord, threshold int, st ui.Styles) string {
	if len(unused) == 0 {
		return st.Good(fmt.Sprintf("Every global dependency is used at least %d %s", threshold, plural(threshold, "time")))
	}
	names := make([]string, len(unused))
	for i, u := range unused {
		names[i] = string(u.Dependency)
	}
	return st.Warn(fmt.Sprintf("The global dependencies %s are used less than %d %s",
		strings.Join(names, ", "), threshold, plural(threshold, "time")))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
