package output

import (
	"gopkg.in/yaml.v3"

	"github.com/unifmt/unifmt/pkg/logger"
	"github.com/unifmt/unifmt/pkg/scheduler"
)

func (f *formatter) formatYAML(report *scheduler.Report) (string, error) {
	f.log.Debug("Formatting YAML output")

	// Reuse the JSON structure for YAML output
	bytes, err := yaml.Marshal(f.convertReport(report))
	if err != nil {
		f.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to marshal YAML")
		return "", err
	}

	return string(bytes), nil
}
