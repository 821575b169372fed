package format

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

var jsonIndent = &pretty.Options{
	Width:    80,
	Prefix:   "",
	Indent:   "  ",
	SortKeys: false,
}

// ParseJSON decodes a JSON document into maps, slices and scalars.
func ParseJSON(text string) (any, error) {
	if err := checkJSON(text); err != nil {
		return nil, err
	}
	return gjson.Parse(text).Value(), nil
}

// StringifyJSON re-serializes a JSON document with two-space indentation.
func StringifyJSON(text string) (string, error) {
	if err := checkJSON(text); err != nil {
		return "", err
	}
	out := pretty.PrettyOptions([]byte(text), jsonIndent)
	return strings.TrimRight(string(out), "\n"), nil
}

// MinifyJSON removes all insignificant whitespace from a JSON document.
func MinifyJSON(text string) (string, error) {
	if err := checkJSON(text); err != nil {
		return "", err
	}
	return string(pretty.Ugly([]byte(text))), nil
}

// ValidateJSON reports a syntax error as a validation failure.
func ValidateJSON(text string) ValidationResult {
	res := ValidationResult{Valid: true, Errors: []string{}}
	if err := checkJSON(text); err != nil {
		res.fail(err.Error())
	}
	return res
}

// QueryJSON returns the raw JSON found at a gjson path.
func QueryJSON(text, path string) (string, error) {
	if err := checkJSON(text); err != nil {
		return "", err
	}
	r := gjson.Get(text, path)
	if !r.Exists() {
		return "", fmt.Errorf("no value at path %q", path)
	}
	return r.Raw, nil
}

// SetJSON stores value at path. A value that is itself valid JSON is
// inserted as-is; anything else is stored as a string.
func SetJSON(text, path, value string) (string, error) {
	if err := checkJSON(text); err != nil {
		return "", err
	}
	var out string
	var err error
	if gjson.Valid(value) {
		out, err = sjson.SetRaw(text, path, value)
	} else {
		out, err = sjson.Set(text, path, value)
	}
	if err != nil {
		return "", fmt.Errorf("set %s: %w", path, err)
	}
	return out, nil
}

// checkJSON uses gjson for the fast verdict and encoding/json for a
// readable message.
func checkJSON(text string) error {
	if gjson.Valid(text) {
		return nil
	}
	var v any
	err := json.Unmarshal([]byte(text), &v)
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &syntaxErr):
		return fmt.Errorf("invalid JSON at offset %d: %v", syntaxErr.Offset, syntaxErr)
	case err != nil:
		return fmt.Errorf("invalid JSON: %v", err)
	default:
		return errors.New("invalid JSON")
	}
}
