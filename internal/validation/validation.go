// Package validation collects field-level input violations so a failing
// request reports every broken rule at once, not just the first.
package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// FieldError describes a single violated rule on an input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors accumulates every violation found in one request body.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Add records a violation.
func (e *Errors) Add(field, format string, args ...any) {
	*e = append(*e, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Err returns e as an error, or nil when no violations were recorded.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// RuneLen counts characters rather than bytes so multi-byte names are not
// penalized by length limits.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// NormalizeEmail trims and lowercases an address, then checks it is a bare,
// syntactically valid addr-spec. Display names ("A <a@b.com>") are rejected.
func NormalizeEmail(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return "", err
	}
	if addr.Address != s {
		return "", fmt.Errorf("mail: address %q is not a bare address", s)
	}
	return addr.Address, nil
}
