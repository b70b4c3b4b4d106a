package lint

// Severity indicates the importance level of a lint issue.
type Severity int

const (
	// SeverityInfo indicates informational messages.
	SeverityInfo Severity = iota
	// SeverityWarning indicates issues that should be fixed but don't block builds.
	SeverityWarning
	// SeverityError indicates issues that will break the engine build.
	SeverityError
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Issue represents a single problem found in the site configuration or content.
type Issue struct {
	Path     string   // File or config key the issue refers to
	Severity Severity // Issue severity level
	Rule     string   // Rule identifier (e.g., "static-path-missing")
	Message  string   // Brief description of the issue
}

// Result contains all issues found during linting.
type Result struct {
	Issues     []Issue
	FilesTotal int // Markdown files scanned
}

// HasErrors returns true if any error-level issues exist.
func (r *Result) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// HasWarnings returns true if any warning-level issues exist.
func (r *Result) HasWarnings() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

func (r *Result) add(severity Severity, rule, path, message string) {
	r.Issues = append(r.Issues, Issue{
		Path:     path,
		Severity: severity,
		Rule:     rule,
		Message:  message,
	})
}
