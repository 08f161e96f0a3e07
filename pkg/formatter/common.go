package formatter

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/dustin/go-humanize"
	"github.com/younsl/iamaudit/pkg/audit"
)

const ruleWidth = 60

// StartSpinner creates and starts a spinner on stderr with the given message
func StartSpinner(message string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	s.Start()
	return s
}

// PrintBanner writes the tool header
func PrintBanner(w io.Writer) {
	rule := strings.Repeat("=", ruleWidth)
	title := "AWS IAM Security Audit Tool"
	pad := (ruleWidth - len(title)) / 2

	fmt.Fprintln(w, boldStyle.Render(rule))
	fmt.Fprintln(w, boldStyle.Render(strings.Repeat(" ", pad)+title))
	fmt.Fprintln(w, boldStyle.Render(rule))
	fmt.Fprintln(w)
}

// PrintCheckResult writes a completion or failure line for one check
func PrintCheckResult(w io.Writer, result audit.CheckResult) {
	if result.Failed() {
		fmt.Fprintln(w, failStyle.Render(fmt.Sprintf("✗ Error checking %s: %v", result.Check.Title(), result.Err)))
		return
	}

	var msg string
	switch result.Check {
	case audit.CheckMFA:
		msg = fmt.Sprintf("✓ MFA check complete: %d users without MFA", result.Findings)
	case audit.CheckKeyAge:
		msg = fmt.Sprintf("✓ Access key age check complete: %d old keys", result.Findings)
	case audit.CheckKeyUsage:
		msg = fmt.Sprintf("✓ Unused key check complete: %d unused keys", result.Findings)
	default:
		msg = fmt.Sprintf("✓ %s check complete: %d findings", result.Check.Title(), result.Findings)
	}
	fmt.Fprintln(w, okStyle.Render(msg))
}

// PrintWarning writes a warning-styled line
func PrintWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, warningStyle.Render("⚠ "+fmt.Sprintf(format, args...)))
}

// Summary describes the outcome of a run for the closing block
type Summary struct {
	TotalIssues  int
	FailedChecks int
	HTMLPath     string
	JSONPath     string
	Uploaded     []string
	Duration     time.Duration
}

// PrintSummary writes the closing block with issue count and artifact locations
func PrintSummary(w io.Writer, s Summary) {
	rule := boldStyle.Render(strings.Repeat("=", ruleWidth))

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, boldStyle.Render("Audit Complete!"))
	fmt.Fprintf(w, "Total Issues Found: %d\n", s.TotalIssues)
	if s.FailedChecks > 0 {
		fmt.Fprintln(w, warningStyle.Render(fmt.Sprintf("Checks failed: %d (their findings are missing from the report)", s.FailedChecks)))
	}
	fmt.Fprintf(w, "Report saved to: %s%s\n", s.HTMLPath, fileSize(s.HTMLPath))
	fmt.Fprintf(w, "JSON report also saved to: %s%s\n", s.JSONPath, fileSize(s.JSONPath))
	for _, uri := range s.Uploaded {
		fmt.Fprintf(w, "Uploaded to: %s\n", uri)
	}
	fmt.Fprintf(w, "Completed in %.2f seconds\n", s.Duration.Seconds())
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
}

func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return ""
	}
	return fmt.Sprintf(" (%s)", humanize.Bytes(uint64(info.Size())))
}
