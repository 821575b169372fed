package format

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidateMarkup(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ValidationResult
	}{
		{
			name:  "unclosed div",
			input: "<div><span></span>",
			want:  ValidationResult{Valid: false, Errors: []string{ErrMismatchedTags}},
		},
		{
			name:  "balanced",
			input: "<div><span></span></div>",
			want:  ValidationResult{Valid: true, Errors: []string{}},
		},
		{
			name:  "crossed nesting passes the count check",
			input: "<a><b></a></b>",
			want:  ValidationResult{Valid: true, Errors: []string{}},
		},
		{
			name:  "void and self-closing elements",
			input: `<div><br><img src="x"/><input type=text></div>`,
			want:  ValidationResult{Valid: true, Errors: []string{}},
		},
		{
			name:  "declarations and comments",
			input: `<?xml version="1.0"?><!DOCTYPE html><!-- c --><a></a>`,
			want:  ValidationResult{Valid: true, Errors: []string{}},
		},
		{
			name:  "extra close",
			input: "<p></p></p>",
			want:  ValidationResult{Valid: false, Errors: []string{ErrMismatchedTags}},
		},
		{
			name:  "empty",
			input: "",
			want:  ValidationResult{Valid: true, Errors: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateMarkup(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ValidateMarkup(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestValidateCode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"balanced", `function f() { return "}"; }`, []string{}},
		{"comment hides brace", "a = 1 // }", []string{}},
		{"unclosed", "{ {", []string{ErrMismatchedBraces}},
		{"stray close", "}", []string{ErrMismatchedBraces}},
		{"unterminated string", `x = "abc`, []string{ErrUnterminatedString}},
		{"unterminated comment", "{ /* abc", []string{ErrMismatchedBraces, ErrUnterminatedComment}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateCode(tt.input)
			if diff := cmp.Diff(tt.want, got.Errors); diff != "" {
				t.Errorf("ValidateCode(%q) errors mismatch (-want +got):\n%s", tt.input, diff)
			}
			if got.Valid != (len(tt.want) == 0) {
				t.Errorf("Valid = %v, want %v", got.Valid, len(tt.want) == 0)
			}
		})
	}
}
