package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/unifmt/unifmt/pkg/scheduler"
)

func (f *formatter) formatText(report *scheduler.Report) (string, error) {
	f.log.Debug("Formatting text output")

	warn := color.New(color.FgYellow)
	fail := color.New(color.FgRed, color.Bold)
	ok := color.New(color.FgGreen)
	if !f.config.WithColors {
		warn.DisableColor()
		fail.DisableColor()
		ok.DisableColor()
	}

	var sb strings.Builder

	for _, warning := range report.Warnings {
		sb.WriteString(warn.Sprintf("warning: %s", warning))
		sb.WriteString("\n")
	}

	summary := fmt.Sprintf("Formatted %d %s in %s",
		report.Formatted, plural(report.Formatted, "file", "files"),
		report.Duration.Round(time.Millisecond))
	var extras []string
	if report.Unchanged > 0 {
		extras = append(extras, fmt.Sprintf("%d unchanged", report.Unchanged))
	}
	if report.Skipped > 0 {
		extras = append(extras, fmt.Sprintf("%d skipped", report.Skipped))
	}
	if report.Cancelled > 0 {
		extras = append(extras, fmt.Sprintf("%d cancelled", report.Cancelled))
	}
	if len(extras) > 0 {
		summary += " (" + strings.Join(extras, ", ") + ")"
	}

	if report.Failed() {
		sb.WriteString(fail.Sprintf("error: %v", report.HardError))
		sb.WriteString("\n")
		sb.WriteString(summary)
	} else {
		sb.WriteString(ok.Sprint(summary))
	}
	sb.WriteString("\n")

	return sb.String(), nil
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
