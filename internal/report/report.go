// Package report renders the outcome of a run for people.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexisbeaulieu97/stagehand/internal/model"
)

// Render formats report as a summary: identity, one line per action result,
// the error ledger and the final outcome. styled adds terminal colours.
func Render(report *model.RunReport, styled bool) string {
	p := palette{styled: styled}
	if report == nil {
		return p.render(mutedStyle, "no run report")
	}

	var lines []string

	title := "Job"
	if report.JobID != "" {
		title += " " + report.JobID
	}
	if report.AgentID != "" {
		title += fmt.Sprintf(" (agent %s)", report.AgentID)
	}
	lines = append(lines, p.render(titleStyle, title))
	if report.JobDirectory != "" {
		lines = append(lines, p.render(mutedStyle, "Directory: "+report.JobDirectory))
	}

	if len(report.Results) > 0 {
		lines = append(lines, "", p.render(sectionStyle, "Actions:"))
		for _, result := range report.Results {
			lines = append(lines, "  "+resultLine(p, result))
		}
	}

	if len(report.Errors) > 0 {
		lines = append(lines, "", p.render(sectionStyle, "Errors:"))
		for _, entry := range report.Errors {
			line := fmt.Sprintf("%s %s/%s: %v", entry.Phase, entry.Stage, entry.Kind, entry.Err)
			lines = append(lines, "  "+p.render(failureStyle, line))
		}
	}

	lines = append(lines, "", outcomeLine(p, report))
	return strings.Join(lines, "\n")
}

func resultLine(p palette, result model.ActionResult) string {
	symbol, style := "✓", successStyle
	switch result.Status {
	case model.StatusFailed:
		symbol, style = "✗", failureStyle
	case model.StatusSkipped:
		symbol, style = "-", skippedStyle
	}

	line := fmt.Sprintf("%s %-7s %s/%s", symbol, result.Phase, result.Stage, result.Kind)
	if result.Message != "" {
		line += "  " + result.Message
	}
	if result.Duration > 0 {
		line += fmt.Sprintf(" (%s)", result.Duration.Round(time.Millisecond))
	}
	return p.render(style, line)
}

func outcomeLine(p palette, report *model.RunReport) string {
	text := "Outcome: " + report.Outcome
	if report.ExitCode >= 0 {
		text += fmt.Sprintf(" (exit code %d)", report.ExitCode)
	}
	if cleanup := len(report.CleanupErrors()); cleanup > 0 {
		text += fmt.Sprintf(", %d cleanup failure(s)", cleanup)
	}

	if report.Succeeded() {
		return p.render(successStyle, text)
	}
	return p.render(failureStyle, text)
}
