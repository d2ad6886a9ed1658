package report

import "fmt"

// ExitPolicy decides whether findings fail the process.
type ExitPolicy string

const (
	// PolicyStrict exits non-zero on any conflict or unused dependency.
	PolicyStrict ExitPolicy = "strict"
	// PolicyReport prints findings and always exits zero.
	PolicyReport ExitPolicy = "report"
)

// ParseExitPolicy parses an exit policy string, defaulting to "strict".
func ParseExitPolicy(s string) (ExitPolicy, error) {
	switch ExitPolicy(s) {
	case PolicyStrict, "":
		return PolicyStrict, nil
	case PolicyReport:
		return PolicyReport, nil
	default:
		return "", fmt.Errorf("unknown exit policy: %q (must be strict or report)", s)
	}
}

// Failed reports whether the run should exit non-zero under policy.
func (r *Report) Failed(policy ExitPolicy) bool {
	return policy != PolicyReport && r.HasFindings()
}
