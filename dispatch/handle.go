package dispatch

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dhamidi/devtext/format"
)

// Handle runs req on the calling goroutine and times it. It is the code a
// worker executes; callers normally go through a Dispatcher instead.
func Handle(req Request) Response {
	start := time.Now()
	resp := Response{ID: req.ID}

	result, err := execute(req)
	if err == nil {
		resp.Result, err = json.Marshal(result)
	}
	resp.Duration = float64(time.Since(start).Nanoseconds()) / 1e6
	if err != nil {
		resp.Error = err.Error()
		resp.Result = nil
		return resp
	}
	resp.Success = true
	return resp
}

func execute(req Request) (any, error) {
	cfg := format.Config{IndentUnit: req.Indent}

	switch req.Kind {
	case KindParseJSON:
		return format.ParseJSON(req.Data)
	case KindStringifyJSON:
		return format.StringifyJSON(req.Data)
	case KindValidateJSON:
		return format.ValidateJSON(req.Data), nil
	case KindMinifyJSON:
		return format.MinifyJSON(req.Data)
	case KindMinifyCode:
		return format.Minify(req.Data, format.DialectCode), nil
	case KindMinifyMarkup:
		return format.Minify(req.Data, format.DialectMarkup), nil
	case KindBeautifyCode:
		return format.Beautify(req.Data, format.DialectCode, cfg), nil
	case KindBeautifyMarkup:
		return format.Beautify(req.Data, format.DialectMarkup, cfg), nil
	case KindValidateMarkup:
		return format.ValidateMarkup(req.Data), nil
	case KindValidateCode:
		return format.ValidateCode(req.Data), nil
	default:
		return nil, fmt.Errorf("unknown task type: %s", req.Kind)
	}
}

// Serve reads one Request from r, handles it and writes the Response to w.
// It is the body of a process worker.
func Serve(r io.Reader, w io.Writer) error {
	var req Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	resp := Handle(req)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}
