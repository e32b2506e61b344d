package backend

import (
	"bytes"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/unifmt/unifmt/pkg/fmtconfig"
)

// formatTOML normalizes a TOML document by decoding it and re-encoding with
// the configured indentation. Re-encoding orders tables deterministically.
func formatTOML(source string, opts fmtconfig.TOMLOptions) (string, error) {
	var v map[string]any
	if _, err := toml.Decode(source, &v); err != nil {
		return "", &ParseError{Message: err.Error()}
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = opts.IndentString
	if err := enc.Encode(v); err != nil {
		return "", err
	}

	formatted := buf.String()
	if opts.TrailingNewline && !strings.HasSuffix(formatted, "\n") {
		formatted += "\n"
	}
	if opts.CRLF {
		formatted = strings.ReplaceAll(formatted, "\n", "\r\n")
	}
	return formatted, nil
}
