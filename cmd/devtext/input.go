package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dhamidi/devtext/format"
)

// readInput returns the contents of the named file, or of stdin when args
// is empty.
func readInput(args []string) (source string, filename string, err error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), "", nil
	}

	filename = args[0]
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", "", fmt.Errorf("read file: %w", err)
	}
	return string(data), filename, nil
}

// resolveDialect prefers an explicit --dialect, then the file extension,
// then code.
func resolveDialect(flag, filename string) (format.Dialect, error) {
	if flag != "" {
		return format.ParseDialect(flag)
	}
	if filename != "" {
		if d, ok := format.DialectForFile(filepath.Base(filename)); ok {
			return d, nil
		}
	}
	return format.DialectCode, nil
}

func parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return d, nil
}
