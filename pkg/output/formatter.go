/*
Package output renders a run report in various formats including plain text,
JSON, and YAML. It supports colored terminal output.

Basic usage:

	formatter := output.NewFormatter(output.Config{
		Format:     output.FormatText,
		WithColors: true,
	}, log)

	rendered, err := formatter.Format(report)
*/
package output

import (
	"fmt"

	"github.com/unifmt/unifmt/pkg/logger"
	"github.com/unifmt/unifmt/pkg/scheduler"
)

// Format represents the output format type
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Config holds formatter configuration
type Config struct {
	Format     Format
	WithColors bool
}

// Formatter defines the interface for report rendering
type Formatter interface {
	Format(*scheduler.Report) (string, error)
}

// formatter implements the Formatter interface
type formatter struct {
	config Config
	log    logger.Logger
}

// NewFormatter creates a new formatter instance
func NewFormatter(config Config, log logger.Logger) Formatter {
	return &formatter{
		config: config,
		log:    log,
	}
}

// Format renders the report according to the configured format
func (f *formatter) Format(report *scheduler.Report) (string, error) {
	if report == nil {
		msg := "nil report provided for formatting"
		f.log.Error(msg)
		return "", fmt.Errorf(msg)
	}

	f.log.WithFields(logger.Fields{
		"format":     f.config.Format,
		"withColors": f.config.WithColors,
	}).Debug("Starting format operation")

	switch f.config.Format {
	case FormatText:
		return f.formatText(report)
	case FormatJSON:
		return f.formatJSON(report)
	case FormatYAML:
		return f.formatYAML(report)
	default:
		msg := fmt.Sprintf("unsupported format: %s", f.config.Format)
		f.log.Error(msg)
		return "", fmt.Errorf(msg)
	}
}
