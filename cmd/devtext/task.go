package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dhamidi/devtext/dispatch"
)

// runTask dispatches one task and returns its result as a string. Results
// that are not strings are returned as their JSON encoding.
func runTask(s *settings, kind dispatch.Kind, data string) (string, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	resp, err := s.dispatcher().Send(ctx, dispatch.Request{
		Kind:   kind,
		Data:   data,
		Indent: s.cfg.IndentUnit,
	})
	if err != nil {
		if dispatch.IsTimeout(err) {
			return "", fmt.Errorf("%w (raise --timeout for large inputs)", err)
		}
		return "", err
	}
	if !resp.Success {
		return "", fmt.Errorf("%s: %s", kind, resp.Error)
	}

	var str string
	if err := resp.DecodeResult(&str); err == nil {
		return str, nil
	}
	return string(resp.Result), nil
}

// writeOutput writes text to the named file or, when filename is empty, to
// stdout followed by a newline.
func writeOutput(filename, text string) error {
	if filename != "" {
		return os.WriteFile(filename, []byte(text+"\n"), 0644)
	}
	_, err := fmt.Fprintln(os.Stdout, text)
	return err
}
