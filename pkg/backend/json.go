package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/tailscale/hujson"
	"github.com/yosuke-furukawa/json5/encoding/json5"

	"github.com/unifmt/unifmt/pkg/fmtconfig"
	"github.com/unifmt/unifmt/pkg/strategy"
)

// formatJSON normalizes a JSON-family document. Strict JSON is reprinted
// preserving member order and number text; JSONC is formatted with its
// comments preserved; JSON5 is normalized to strict JSON with sorted keys,
// since no order-preserving JSON5 decoder is available.
func formatJSON(source string, dialect strategy.JSONDialect, opts fmtconfig.JSONOptions) (string, error) {
	switch dialect {
	case strategy.JSONC:
		formatted, err := hujson.Format([]byte(source))
		if err != nil {
			return "", &ParseError{Message: err.Error()}
		}
		// hujson emits LF and its own indentation; the line ending is
		// rewritten, the indent is not. Raw newlines cannot occur inside
		// JSON strings, so a blanket replace is safe.
		out := string(formatted)
		if opts.LineEnding != "\n" {
			out = strings.ReplaceAll(out, "\n", opts.LineEnding)
		}
		return out, nil

	case strategy.JSON5:
		var v any
		if err := json5.Unmarshal([]byte(source), &v); err != nil {
			return "", &ParseError{Message: err.Error()}
		}
		normalized, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return reprintJSON(normalized, opts, true)

	default:
		return reprintJSON([]byte(source), opts, false)
	}
}

// reprintJSON pretty-prints a strict JSON document from its token stream,
// preserving member order and the exact text of numbers.
func reprintJSON(data []byte, opts fmtconfig.JSONOptions, allowTrailingComma bool) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	indent := strings.Repeat(" ", opts.IndentWidth)
	if opts.UseTabs {
		indent = "\t"
	}

	p := &jsonPrinter{
		dec:           dec,
		indent:        indent,
		lineEnding:    opts.LineEnding,
		trailingComma: allowTrailingComma && opts.TrailingCommas,
	}

	tok, err := dec.Token()
	if err != nil {
		return "", &ParseError{Message: err.Error()}
	}
	if err := p.value(tok, 0); err != nil {
		return "", err
	}
	if _, err := dec.Token(); err != io.EOF {
		return "", &ParseError{Message: "unexpected content after top-level value"}
	}

	p.out.WriteString(opts.LineEnding)
	return p.out.String(), nil
}

type jsonPrinter struct {
	dec           *json.Decoder
	out           strings.Builder
	indent        string
	lineEnding    string
	trailingComma bool
}

func (p *jsonPrinter) value(tok json.Token, depth int) error {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return p.object(depth)
		case '[':
			return p.array(depth)
		}
		return &ParseError{Message: fmt.Sprintf("unexpected delimiter %q", t)}
	case string:
		b, err := json.Marshal(t)
		if err != nil {
			return err
		}
		p.out.Write(b)
	case json.Number:
		p.out.WriteString(t.String())
	case bool:
		if t {
			p.out.WriteString("true")
		} else {
			p.out.WriteString("false")
		}
	case nil:
		p.out.WriteString("null")
	}
	return nil
}

func (p *jsonPrinter) object(depth int) error {
	first := true
	for p.dec.More() {
		keyTok, err := p.dec.Token()
		if err != nil {
			return &ParseError{Message: err.Error()}
		}
		key, ok := keyTok.(string)
		if !ok {
			return &ParseError{Message: fmt.Sprintf("object key is not a string: %v", keyTok)}
		}

		if first {
			p.out.WriteString("{")
			first = false
		} else {
			p.out.WriteString(",")
		}
		p.newlineIndent(depth + 1)

		keyJSON, err := json.Marshal(key)
		if err != nil {
			return err
		}
		p.out.Write(keyJSON)
		p.out.WriteString(": ")

		valTok, err := p.dec.Token()
		if err != nil {
			return &ParseError{Message: err.Error()}
		}
		if err := p.value(valTok, depth+1); err != nil {
			return err
		}
	}

	if _, err := p.dec.Token(); err != nil { // closing brace
		return &ParseError{Message: err.Error()}
	}
	if first {
		p.out.WriteString("{}")
		return nil
	}
	if p.trailingComma {
		p.out.WriteString(",")
	}
	p.newlineIndent(depth)
	p.out.WriteString("}")
	return nil
}

func (p *jsonPrinter) array(depth int) error {
	first := true
	for p.dec.More() {
		tok, err := p.dec.Token()
		if err != nil {
			return &ParseError{Message: err.Error()}
		}

		if first {
			p.out.WriteString("[")
			first = false
		} else {
			p.out.WriteString(",")
		}
		p.newlineIndent(depth + 1)

		if err := p.value(tok, depth+1); err != nil {
			return err
		}
	}

	if _, err := p.dec.Token(); err != nil { // closing bracket
		return &ParseError{Message: err.Error()}
	}
	if first {
		p.out.WriteString("[]")
		return nil
	}
	if p.trailingComma {
		p.out.WriteString(",")
	}
	p.newlineIndent(depth)
	p.out.WriteString("]")
	return nil
}

func (p *jsonPrinter) newlineIndent(depth int) {
	p.out.WriteString(p.lineEnding)
	for i := 0; i < depth; i++ {
		p.out.WriteString(p.indent)
	}
}
