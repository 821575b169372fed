// Package format minifies, beautifies and validates source text without
// parsing it. Every transform is driven by the same character scanner, which
// tracks string literals, comments and brace or tag nesting.
package format

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Dialect selects the lexical rules a scan applies.
type Dialect int

const (
	// DialectCode covers brace-delimited languages such as JavaScript, CSS
	// and JSON.
	DialectCode Dialect = iota
	// DialectMarkup covers tag-delimited languages such as HTML and XML.
	DialectMarkup
)

func (d Dialect) String() string {
	switch d {
	case DialectCode:
		return "code"
	case DialectMarkup:
		return "markup"
	default:
		return fmt.Sprintf("Dialect(%d)", int(d))
	}
}

// ParseDialect accepts the names produced by Dialect.String and a few common
// aliases.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(s) {
	case "code", "js", "javascript", "css", "json":
		return DialectCode, nil
	case "markup", "html", "xml":
		return DialectMarkup, nil
	default:
		return DialectCode, fmt.Errorf("unknown dialect: %s", s)
	}
}

var extensionDialects = map[string]Dialect{
	".js":   DialectCode,
	".mjs":  DialectCode,
	".cjs":  DialectCode,
	".ts":   DialectCode,
	".jsx":  DialectCode,
	".tsx":  DialectCode,
	".css":  DialectCode,
	".json": DialectCode,
	".go":   DialectCode,
	".c":    DialectCode,
	".h":    DialectCode,
	".java": DialectCode,
	".html": DialectMarkup,
	".htm":  DialectMarkup,
	".xml":  DialectMarkup,
	".svg":  DialectMarkup,
	".vue":  DialectMarkup,
}

// DialectForFile guesses the dialect from a file name's extension.
func DialectForFile(name string) (Dialect, bool) {
	d, ok := extensionDialects[strings.ToLower(filepath.Ext(name))]
	return d, ok
}

// DefaultIndent is the indentation unit used when a Config leaves it empty.
const DefaultIndent = "  "

// Config controls Beautify.
type Config struct {
	IndentUnit string
}

func DefaultConfig() Config {
	return Config{IndentUnit: DefaultIndent}
}

func (c Config) indentUnit() string {
	if c.IndentUnit == "" {
		return DefaultIndent
	}
	return c.IndentUnit
}
