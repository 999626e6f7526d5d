package internal

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Parser parses a transaction file into a dataset
type Parser interface {
	Parse(path string) (*Dataset, error)
}

// ParserFunc is a function that implements Parser
type ParserFunc func(path string) (*Dataset, error)

func (f ParserFunc) Parse(path string) (*Dataset, error) {
	return f(path)
}

// DefaultFormat is used when neither a format prefix nor a known extension selects a parser
const DefaultFormat = "csv"

// parsers is the registry of available parsers
var parsers = map[string]Parser{}

// extensions maps file extensions to parser names
var extensions = map[string]string{}

// RegisterParser registers a parser with the given name and file extensions
func RegisterParser(name string, p Parser, exts ...string) {
	parsers[name] = p
	for _, ext := range exts {
		extensions[strings.ToLower(ext)] = name
	}
}

// GetParser returns the parser for the given format
func GetParser(format string) (Parser, error) {
	p, ok := parsers[format]
	if !ok {
		return nil, fmt.Errorf("unknown format: %s (available: %v)", format, AvailableFormats())
	}
	return p, nil
}

// AvailableFormats returns the registered formats in sorted order
func AvailableFormats() []string {
	var formats []string
	for name := range parsers {
		formats = append(formats, name)
	}
	sort.Strings(formats)
	return formats
}

// IsKnownParser returns true if the name is a registered parser
func IsKnownParser(name string) bool {
	_, ok := parsers[name]
	return ok
}

// ParseFileArg parses a file argument that may have a format prefix.
// Returns (format, path). If no valid prefix, format is empty.
// Example: "simple-json:data.json" → ("simple-json", "data.json")
// Example: "data.csv" → ("", "data.csv")
// Example: "C:\path\file.xlsx" → ("", "C:\path\file.xlsx") // Windows path
func ParseFileArg(arg string) (format, path string) {
	idx := strings.Index(arg, ":")
	if idx == -1 {
		return "", arg
	}
	prefix := arg[:idx]
	if IsKnownParser(prefix) {
		return prefix, arg[idx+1:]
	}
	return "", arg // Not a known parser, treat whole thing as path
}

// FormatFor picks a format for path: an explicit format wins, then the file
// extension, then DefaultFormat.
func FormatFor(format, path string) string {
	if format != "" {
		return format
	}
	if name, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return name
	}
	return DefaultFormat
}

// HasKnownExtension reports whether a parser is registered for the extension of path
func HasKnownExtension(path string) bool {
	_, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// ParseFile parses a file argument, honoring a "format:" prefix.
func ParseFile(arg string) (*Dataset, error) {
	return ParseFileAs(arg, "")
}

// ParseFileAs parses a file argument with the given format. An empty format
// falls back to the "format:" prefix, then the file extension.
func ParseFileAs(arg, format string) (*Dataset, error) {
	prefix, path := ParseFileArg(arg)
	if format == "" {
		format = prefix
	}
	p, err := GetParser(FormatFor(format, path))
	if err != nil {
		return nil, err
	}
	ds, err := p.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return ds, nil
}
