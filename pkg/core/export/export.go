// Package export serializes a generated report to a plain-text artifact for
// download. Models occasionally hand back HTML fragments in message bodies;
// the exporter flattens those so the artifact stays plain text.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"marketing_ai/pkg/core/campaign"
)

// PlainText renders the whole report, one block per target, successes and
// recorded failures alike. The caller decides where the artifact goes.
func PlainText(report *campaign.Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Campaign report %s (%s)\n", report.ID, report.ContentType)
	fmt.Fprintf(&sb, "Generated: %s\n", report.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&sb, "Targets: %d total, %d succeeded\n", len(report.Entries), report.Succeeded())

	for _, entry := range report.Entries {
		fmt.Fprintf(&sb, "\n=== %s ===\n", entry.TargetID)
		result := entry.Result

		if !result.OK() {
			fmt.Fprintf(&sb, "FAILED (%s): %s\n", result.Failure, result.Err)
			if result.RawText != "" {
				fmt.Fprintf(&sb, "Raw reply:\n%s\n", result.RawText)
			}
			continue
		}

		if len(result.Items) == 0 {
			sb.WriteString("(no items generated)\n")
		}
		for i, item := range result.Items {
			fmt.Fprintf(&sb, "--- variant %d ---\n", i+1)
			for _, field := range campaign.ItemFields(report.ContentType) {
				if v, ok := item[field]; ok && v != "" {
					fmt.Fprintf(&sb, "%s: %s\n", field, FlattenHTML(v))
				}
			}
			// Fields outside the declared shape still belong to the user.
			extras := []string{}
			for field, v := range item {
				if !isDeclaredField(report.ContentType, field) && v != "" {
					extras = append(extras, field)
				}
			}
			sort.Strings(extras)
			for _, field := range extras {
				fmt.Fprintf(&sb, "%s: %s\n", field, FlattenHTML(item[field]))
			}
		}
		for _, w := range result.Warnings {
			fmt.Fprintf(&sb, "warning: %s\n", w)
		}
	}

	return sb.String()
}

// FlattenHTML strips markup from a value that came back as an HTML
// fragment. Values without tags pass through untouched.
func FlattenHTML(s string) string {
	if !strings.Contains(s, "<") || !strings.Contains(s, ">") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	text := strings.TrimSpace(doc.Text())
	if text == "" {
		return s
	}
	return text
}

func isDeclaredField(c campaign.ContentType, field string) bool {
	for _, f := range campaign.ItemFields(c) {
		if f == field {
			return true
		}
	}
	return false
}
