package report

import (
	"io"
	"strings"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/younsl/iamaudit/internal/models"
	"github.com/younsl/iamaudit/pkg/utils"
)

const reportTitle = "IAM Security Audit Report"

const stylesheet = `
body { font-family: Arial, sans-serif; margin: 40px; background-color: #f5f5f5; }
.container { background-color: white; padding: 30px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
h1 { color: #232f3e; border-bottom: 3px solid #ff9900; padding-bottom: 10px; }
h2 { color: #232f3e; margin-top: 30px; }
.summary { background-color: #f0f0f0; padding: 16px; border-radius: 5px; margin: 20px 0; }
.severity-high { color: #d13212; font-weight: bold; }
.severity-medium { color: #f89000; font-weight: bold; }
.severity-low { color: #1e8900; font-weight: bold; }
.empty { color: #1e8900; }
table { width: 100%; border-collapse: collapse; margin: 20px 0; }
th { background-color: #232f3e; color: white; padding: 12px; text-align: left; }
td { padding: 10px; border-bottom: 1px solid #ddd; }
tr:hover { background-color: #f5f5f5; }
.timestamp { color: #666; font-size: 14px; }
`

// RenderHTML writes the styled report for snap. The output depends only on snap.
func RenderHTML(w io.Writer, snap models.FindingsSnapshot) error {
	return document(snap).Render(w)
}

func document(snap models.FindingsSnapshot) Node {
	return Doctype(
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
				TitleEl(Text(reportTitle)),
				StyleEl(Raw(stylesheet)),
			),
			Body(
				Div(Class("container"),
					H1(Text("🔒 "+reportTitle)),
					P(Class("timestamp"), Text("Generated: "+utils.FormatTimestamp(snap.GeneratedAt))),
					If(snap.AccountID != "", P(Class("timestamp"), Text("Account: "+snap.AccountID))),
					summary(snap),
					mfaSection(snap.MFAAbsences),
					staleKeySection(snap.StaleKeys),
					unusedKeySection(snap.UnusedKeys),
				),
			),
		),
	)
}

func summary(snap models.FindingsSnapshot) Node {
	return Div(Class("summary"),
		H3(Text("📊 Summary")),
		P(Strong(Text("Total Issues Found: ")), Textf("%d", snap.TotalIssues())),
		Ul(
			Li(Textf("Users without MFA: %d", len(snap.MFAAbsences))),
			Li(Textf("Old Access Keys: %d", len(snap.StaleKeys))),
			Li(Textf("Unused Access Keys: %d", len(snap.UnusedKeys))),
		),
	)
}

func mfaSection(users []models.MFAAbsence) Node {
	heading := H2(Text("❌ Users Without MFA"))
	if len(users) == 0 {
		return Group{heading, emptyState("Every user has an MFA device registered.")}
	}
	return Group{
		heading,
		P(Text("These users should enable MFA immediately for enhanced security.")),
		findingsTable([]string{"Username", "Created Date", "Severity"},
			Map(users, func(u models.MFAAbsence) Node {
				return Tr(
					Td(Text(u.UserName)),
					Td(Text(utils.FormatTimestamp(u.CreatedAt))),
					severityCell(u.Severity()),
				)
			})),
	}
}

func staleKeySection(keys []models.StaleKey) Node {
	heading := H2(Text("⏰ Old Access Keys"))
	if len(keys) == 0 {
		return Group{heading, emptyState("No access keys exceed the rotation age.")}
	}
	return Group{
		heading,
		P(Text("These access keys should be rotated.")),
		findingsTable([]string{"Username", "Key ID", "Age (days)", "Created Date", "Status", "Severity"},
			Map(keys, func(k models.StaleKey) Node {
				return Tr(
					Td(Text(k.UserName)),
					Td(Text(utils.MaskKeyID(k.KeyID))),
					Td(Textf("%d", k.AgeDays)),
					Td(Text(utils.FormatTimestamp(k.CreatedAt))),
					Td(Text(string(k.Status))),
					severityCell(k.Severity()),
				)
			})),
	}
}

func unusedKeySection(keys []models.UnusedKey) Node {
	heading := H2(Text("🗑️ Unused Access Keys"))
	if len(keys) == 0 {
		return Group{heading, emptyState("No unused access keys found.")}
	}
	return Group{
		heading,
		P(Text("Consider deleting these unused keys.")),
		findingsTable([]string{"Username", "Key ID", "Last Used", "Days Since Use", "Severity"},
			Map(keys, func(k models.UnusedKey) Node {
				lastUsed := models.NeverUsed
				if k.LastUsedAt != nil {
					lastUsed = utils.FormatTimestamp(*k.LastUsedAt)
				}
				return Tr(
					Td(Text(k.UserName)),
					Td(Text(utils.MaskKeyID(k.KeyID))),
					Td(Text(lastUsed)),
					Td(Text(k.DaysSinceUseString())),
					severityCell(k.Severity()),
				)
			})),
	}
}

func findingsTable(columns []string, rows Group) Node {
	return Table(
		THead(Tr(Map(columns, func(c string) Node { return Th(Text(c)) }))),
		TBody(rows),
	)
}

func severityCell(s models.Severity) Node {
	return Td(Class("severity-"+strings.ToLower(string(s))), Text(string(s)))
}

func emptyState(msg string) Node {
	return P(Class("empty"), Text("✓ "+msg))
}
