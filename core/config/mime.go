package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadMIMETypes reads extension to content-type overrides from a YAML file:
//
//	.webmanifest: application/manifest+json
//	md: text/markdown; charset=utf-8
//	.exe: ""          # an empty value removes a built-in mapping
//
// An empty path returns nil overrides.
func LoadMIMETypes(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open mime file: %w", err)
	}
	defer f.Close()

	return ParseMIMETypes(f)
}

// ParseMIMETypes decodes YAML overrides from r. An empty document yields nil.
func ParseMIMETypes(r io.Reader) (map[string]string, error) {
	var types map[string]string
	if err := yaml.NewDecoder(r).Decode(&types); err != nil && err != io.EOF {
		return nil, fmt.Errorf("config: decode mime file: %w", err)
	}
	return types, nil
}
