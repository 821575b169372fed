package format

import (
	"regexp"
	"strings"
)

// ValidationResult reports whether a document passed a structural check.
// Errors are descriptive rather than positional.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

const (
	ErrMismatchedTags      = "Mismatched tags detected"
	ErrMismatchedBraces    = "Mismatched braces detected"
	ErrUnterminatedString  = "Unterminated string literal"
	ErrUnterminatedComment = "Unterminated comment"
)

var (
	openTagPattern  = regexp.MustCompile(`<[^/!][^>]*>`)
	closeTagPattern = regexp.MustCompile(`</[^>]*>`)
)

// ValidateMarkup compares the number of opening and closing tags. It looks
// at raw text, so tags inside attribute values or comments are counted too,
// and it does not check that names match or that tags nest properly:
// "<a><b></a></b>" is valid. Void elements, "/>" tags and "<?...?>"
// declarations are not opening tags.
func ValidateMarkup(markup string) ValidationResult {
	opened := 0
	for _, tag := range openTagPattern.FindAllString(markup, -1) {
		if strings.HasPrefix(tag, "<?") || strings.HasSuffix(tag, "/>") || voidElements[tagName(tag)] {
			continue
		}
		opened++
	}
	closed := len(closeTagPattern.FindAllString(markup, -1))

	res := ValidationResult{Valid: true, Errors: []string{}}
	if opened != closed {
		res.fail(ErrMismatchedTags)
	}
	return res
}

// ValidateCode checks that braces balance outside literals and comments and
// that the input does not end inside a string or block comment.
func ValidateCode(code string) ValidationResult {
	st := Scan(code, DialectCode, func(Segment) {})

	res := ValidationResult{Valid: true, Errors: []string{}}
	if st.Depth != 0 || st.Unmatched != 0 {
		res.fail(ErrMismatchedBraces)
	}
	switch st.Mode.Kind() {
	case ModeString:
		res.fail(ErrUnterminatedString)
	case ModeBlockComment:
		res.fail(ErrUnterminatedComment)
	}
	return res
}

func (r *ValidationResult) fail(msg string) {
	r.Valid = false
	r.Errors = append(r.Errors, msg)
}
