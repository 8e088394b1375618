// Package loader reads and writes record lists from JSON, JSON Lines and YAML
// files and reloads them when the file changes.
package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format is a file encoding of a list of records.
type Format string

// Supported formats.
const (
	JSONL Format = "jsonl"
	JSON  Format = "json"
	YAML  Format = "yaml"
)

var errUnknownFormat = errors.New("unknown format")

// ParseFormat returns the format named s.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case JSONL, JSON, YAML:
		return f, nil
	case "ndjson":
		return JSONL, nil
	case "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("%w %q", errUnknownFormat, s)
	}
}

// FormatFromPath infers the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", errUnknownFormat, path)
	}
	return ParseFormat(ext)
}
