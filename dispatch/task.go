// Package dispatch runs text transforms in isolated, short-lived workers.
//
// Every call to Dispatcher.Dispatch spawns a fresh worker, hands it one
// Request, and waits for the matching Response, a worker fault, or the
// timeout, whichever comes first. The worker is terminated on every path and
// never reused. Workers exchange requests and responses as JSON, so nothing
// is shared with the caller even when the worker is a goroutine.
package dispatch

import (
	"encoding/json"
	"fmt"
	"slices"
)

type Kind string

const (
	KindParseJSON      Kind = "parse-json"
	KindStringifyJSON  Kind = "stringify-json"
	KindValidateJSON   Kind = "validate-json"
	KindMinifyJSON     Kind = "minify-json"
	KindMinifyCode     Kind = "minify-code"
	KindMinifyMarkup   Kind = "minify-markup"
	KindBeautifyCode   Kind = "beautify-code"
	KindBeautifyMarkup Kind = "beautify-markup"
	KindValidateMarkup Kind = "validate-markup"
	KindValidateCode   Kind = "validate-code"
)

var kinds = []Kind{
	KindParseJSON,
	KindStringifyJSON,
	KindValidateJSON,
	KindMinifyJSON,
	KindMinifyCode,
	KindMinifyMarkup,
	KindBeautifyCode,
	KindBeautifyMarkup,
	KindValidateMarkup,
	KindValidateCode,
}

// Kinds lists every task kind a worker can run.
func Kinds() []Kind {
	return slices.Clone(kinds)
}

func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !slices.Contains(kinds, k) {
		return "", fmt.Errorf("unknown task type: %s", s)
	}
	return k, nil
}

// Request is one unit of work. ID is the only link between a request and
// its response.
type Request struct {
	ID   string `json:"id"`
	Kind Kind   `json:"type"`
	Data string `json:"data"`

	// Indent overrides the indentation unit of the beautify kinds.
	Indent string `json:"indent,omitempty"`
}

// Response is what a worker sends back. A malformed payload yields
// Success false with a human-readable Error and no Result.
type Response struct {
	ID       string          `json:"id"`
	Success  bool            `json:"success"`
	Result   json.RawMessage `json:"result,omitempty"`
	Error    string          `json:"error,omitempty"`
	Duration float64         `json:"duration"` // milliseconds
}

// DecodeResult unmarshals the result payload into v.
func (r *Response) DecodeResult(v any) error {
	if !r.Success {
		return &InputError{ID: r.ID, Message: r.Error}
	}
	if len(r.Result) == 0 {
		return fmt.Errorf("task %s: empty result", r.ID)
	}
	return json.Unmarshal(r.Result, v)
}
