// Package render writes reports for people and for other programs.
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ademuri/ytm-wrapped/internal/analysis"
)

type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	Text Format = "text"
	XLSX Format = "xlsx"
)

var Formats = []Format{JSON, YAML, Text, XLSX}

func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (want one of %v)", s, Formats)
}

// Write renders report to w in format.
func Write(w io.Writer, report *analysis.Report, format Format) error {
	switch format {
	case JSON:
		return WriteJSON(w, report)
	case YAML:
		return WriteYAML(w, report)
	case Text:
		return WriteText(w, report)
	case XLSX:
		return WriteXLSX(w, report)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// WriteJSON writes the report in its wire format.
func WriteJSON(w io.Writer, report *analysis.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

func WriteYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return encoder.Close()
}
