package output

import (
	"encoding/json"
	"time"

	"github.com/unifmt/unifmt/pkg/logger"
	"github.com/unifmt/unifmt/pkg/scheduler"
)

// jsonReport represents the complete JSON output
type jsonReport struct {
	Success   bool      `json:"success"`
	Formatted int       `json:"formatted"`
	Unchanged int       `json:"unchanged"`
	Skipped   int       `json:"skipped"`
	Cancelled int       `json:"cancelled,omitempty"`
	Warnings  []string  `json:"warnings,omitempty"`
	Error     string    `json:"error,omitempty"`
	Duration  string    `json:"duration"`
	Generated time.Time `json:"generated"`
}

func (f *formatter) convertReport(report *scheduler.Report) *jsonReport {
	out := &jsonReport{
		Success:   !report.Failed(),
		Formatted: report.Formatted,
		Unchanged: report.Unchanged,
		Skipped:   report.Skipped,
		Cancelled: report.Cancelled,
		Warnings:  report.Warnings,
		Duration:  report.Duration.String(),
		Generated: time.Now(),
	}
	if report.HardError != nil {
		out.Error = report.HardError.Error()
	}
	return out
}

func (f *formatter) formatJSON(report *scheduler.Report) (string, error) {
	f.log.Debug("Formatting JSON output")

	bytes, err := json.MarshalIndent(f.convertReport(report), "", "  ")
	if err != nil {
		f.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to marshal JSON")
		return "", err
	}

	return string(bytes), nil
}
