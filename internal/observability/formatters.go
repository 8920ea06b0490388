// Package observability renders catalogs and progress as boxed text for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/lernify/internal/catalog"
	"github.com/jonathan/lernify/internal/progress"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxStepsToShow caps the steps listed per domain
	maxStepsToShow = 8
	// barWidth is the width of a completion bar
	barWidth = 20
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(title, inner), inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, inner), inner))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad right-pads s with spaces to n runes. fmt's width verbs count bytes.
func pad(s string, n int) string {
	if c := utf8.RuneCountInString(s); c < n {
		return s + strings.Repeat(" ", n-c)
	}
	return s
}

// bar renders a completion bar for percent in 0..100.
func bar(percent int) string {
	percent = max(0, min(percent, 100))
	filled := percent * barWidth / 100
	return "[" + strings.Repeat("█", filled) + strings.Repeat("·", barWidth-filled) + "]"
}

// PrintCatalog outputs every domain with its ordered steps and the scoring policy.
func (p *Printer) PrintCatalog(cat *catalog.Catalog) {
	if cat == nil {
		return
	}

	policy := cat.Policy()
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Steps:  pass %d / %d\n", policy.StepPassScore, policy.StepMaxScore))
	sb.WriteString(fmt.Sprintf("Final:  pass %d / %d\n", policy.FinalPassScore, policy.FinalMaxScore))

	for _, name := range cat.Domains() {
		steps, err := cat.StepsFor(name)
		if err != nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n%s (%d steps)\n", name, len(steps)))
		count := min(len(steps), maxStepsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  %d. %s [%s]\n", i+1, steps[i].Title, steps[i].ID))
		}
		if len(steps) > maxStepsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(steps)-maxStepsToShow))
		}
	}

	p.printBox("ROADMAP CATALOG", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDashboard outputs one completion line per domain.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintDashboard(items []progress.Summary) {
	if len(items) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %s │\n", pad("No roadmaps started", boxWidth-4))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	for i, item := range items {
		sb.WriteString(fmt.Sprintf("%s\n", item.Domain))
		sb.WriteString(fmt.Sprintf("  %s %3d%%  %d/%d", bar(item.Percent), item.Percent, item.Completed, item.Total))
		if item.FinalPassed != nil {
			if *item.FinalPassed {
				sb.WriteString("  ✓final")
			} else {
				sb.WriteString("  ✗final")
			}
		}
		if i < len(items)-1 {
			sb.WriteString("\n\n")
		}
	}

	p.printBox("PROGRESS DASHBOARD", sb.String())
}

// PrintProgress outputs the step states of a single record.
func (p *Printer) PrintProgress(rec *progress.RoadmapProgress) {
	if rec == nil {
		return
	}

	var sb strings.Builder
	summary := progress.Summarize(rec)
	sb.WriteString(fmt.Sprintf("%s %d%%\n\n", bar(summary.Percent), summary.Percent))
	for i, id := range rec.StepIDs {
		marker := " "
		if i == rec.CurrentStepIndex {
			marker = "▶"
		}
		sb.WriteString(fmt.Sprintf("%s %-8s %s\n", marker, rec.StepStates[i], id))
	}
	if rec.Final != nil {
		sb.WriteString(fmt.Sprintf("\nFinal: %d (passed: %t)", rec.Final.Score, rec.Final.Passed))
	}

	p.printBox(strings.ToUpper(rec.Domain), strings.TrimSuffix(sb.String(), "\n"))
}
