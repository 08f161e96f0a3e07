package formatter

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/younsl/iamaudit/internal/models"
	"github.com/younsl/iamaudit/pkg/utils"
)

// FormatFindingsTables writes one table per non-empty category of snap
func FormatFindingsTables(writer io.Writer, snap models.FindingsSnapshot) {
	if snap.TotalIssues() == 0 {
		fmt.Fprintln(writer, okStyle.Render("✓ No IAM security issues found."))
		return
	}

	if len(snap.MFAAbsences) > 0 {
		fmt.Fprintln(writer, headerStyle.Render("\nUsers Without MFA:"))
		FormatMFATable(writer, snap.MFAAbsences, snap.GeneratedAt)
	}
	if len(snap.StaleKeys) > 0 {
		fmt.Fprintln(writer, headerStyle.Render("\nOld Access Keys:"))
		FormatStaleKeyTable(writer, snap.StaleKeys)
	}
	if len(snap.UnusedKeys) > 0 {
		fmt.Fprintln(writer, headerStyle.Render("\nUnused Access Keys:"))
		FormatUnusedKeyTable(writer, snap.UnusedKeys, snap.GeneratedAt)
	}
}

// FormatMFATable writes users without MFA in a table format
func FormatMFATable(writer io.Writer, users []models.MFAAbsence, now time.Time) {
	w := tabwriter.NewWriter(writer, 0, 0, 3, ' ', tabwriter.TabIndent)
	fmt.Fprintln(w, "USER NAME\tCREATED\tSEVERITY")

	for _, user := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			user.UserName,
			formatDate(user.CreatedAt, now),
			user.Severity(),
		)
	}
	w.Flush()
}

// FormatStaleKeyTable writes access keys due for rotation in a table format
func FormatStaleKeyTable(writer io.Writer, keys []models.StaleKey) {
	w := tabwriter.NewWriter(writer, 0, 0, 3, ' ', tabwriter.TabIndent)
	fmt.Fprintln(w, "USER NAME\tKEY ID\tAGE (DAYS)\tCREATED\tSTATUS\tSEVERITY")

	for _, key := range keys {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
			key.UserName,
			utils.MaskKeyID(key.KeyID),
			key.AgeDays,
			key.CreatedAt.Format("2006-01-02"),
			key.Status,
			key.Severity(),
		)
	}
	w.Flush()
}

// FormatUnusedKeyTable writes unused access keys in a table format
func FormatUnusedKeyTable(writer io.Writer, keys []models.UnusedKey, now time.Time) {
	w := tabwriter.NewWriter(writer, 0, 0, 3, ' ', tabwriter.TabIndent)
	fmt.Fprintln(w, "USER NAME\tKEY ID\tLAST USED\tDAYS SINCE USE\tSEVERITY")

	for _, key := range keys {
		lastUsedStr := models.NeverUsed
		if key.LastUsedAt != nil {
			lastUsedStr = formatDate(*key.LastUsedAt, now)
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			key.UserName,
			utils.MaskKeyID(key.KeyID),
			lastUsedStr,
			key.DaysSinceUseString(),
			key.Severity(),
		)
	}
	w.Flush()
}

// Helper function to format date relative to the scan time
func formatDate(t, now time.Time) string {
	return fmt.Sprintf("%s (%s)", t.Format("2006-01-02"), humanize.RelTime(t, now, "ago", "from now"))
}
