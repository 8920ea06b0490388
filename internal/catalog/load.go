package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/lernify/internal/schemas"
	rootschemas "github.com/jonathan/lernify/schemas"
	"gopkg.in/yaml.v3"
)

var catalogSchema = schemas.MustCompile("catalog", rootschemas.Catalog)

// Format identifies the encoding of a catalog file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// catalogFile is the on-disk catalog document.
type catalogFile struct {
	Policy  *Policy  `json:"policy,omitempty"`
	Domains []Domain `json:"domains"`
}

// FormatFromPath infers the catalog format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported catalog file extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// LoadFile reads, validates and builds a catalog from a JSON or YAML file.
func LoadFile(path string) (*Catalog, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	c, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a catalog document, validates it against the catalog schema and
// builds the catalog. A document without a policy uses DefaultPolicy.
func Parse(data []byte, format Format) (*Catalog, error) {
	var raw interface{}
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}

	// Normalize through JSON so YAML and JSON input validate and decode identically.
	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize catalog document: %w", err)
	}

	if err := catalogSchema.ValidateJSON(normalized); err != nil {
		return nil, err
	}

	var file catalogFile
	dec := json.NewDecoder(bytes.NewReader(normalized))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	policy := DefaultPolicy()
	if file.Policy != nil {
		policy = *file.Policy
	}
	return New(file.Domains, policy)
}
