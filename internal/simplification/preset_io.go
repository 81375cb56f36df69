package simplification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/sf-parking-zones/internal/pkg/validator"
)

// Format is a preset serialisation format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps "json", "yaml" or "yml" to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown preset format %q", s)
	}
}

// ExportPreset serialises a candidate without its metrics. JSON is the
// clipboard format.
func ExportPreset(c Candidate, format Format) ([]byte, error) {
	c.Metrics = nil
	switch format {
	case FormatJSON:
		return json.MarshalIndent(c, "", "  ")
	case FormatYAML:
		return yaml.Marshal(c)
	default:
		return nil, fmt.Errorf("unknown preset format %q", format)
	}
}

// ImportPreset reads a candidate in either format and validates it.
func ImportPreset(data []byte) (Candidate, error) {
	var c Candidate
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return c, fmt.Errorf("empty preset")
	}

	var err error
	if trimmed[0] == '{' {
		err = json.Unmarshal(trimmed, &c)
	} else {
		err = yaml.Unmarshal(trimmed, &c)
	}
	if err != nil {
		return Candidate{}, fmt.Errorf("decode preset: %w", err)
	}

	if err := validator.Validate(c); err != nil {
		return Candidate{}, fmt.Errorf("invalid preset: %w", err)
	}
	c.Metrics = nil
	return c, nil
}
