// Package validation checks sign-up and login form fields.
package validation

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirm_password"
)

const (
	MsgName            = "Name must be at least 2 characters"
	MsgEmail           = "Please enter a valid email address"
	MsgPassword        = "Password must be at least 6 characters"
	MsgConfirmPassword = "Passwords do not match"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Fields holds submitted form values. A missing key means the field was not submitted.
type Fields map[string]string

// Errors maps a failing field to its message. Empty means every submitted field is valid.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Err returns nil when e is empty.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func ValidEmail(email string) bool {
	return emailRe.MatchString(strings.ToLower(email))
}

// ValidPassword counts UTF-16 code units, so a character outside the BMP counts twice.
func ValidPassword(password string) bool {
	return len(utf16.Encode([]rune(password))) >= 6
}

func ValidName(name string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(name)) >= 2
}

// Check validates only the fields present in f.
func Check(f Fields) Errors {
	errs := Errors{}
	if v, ok := f[FieldName]; ok && !ValidName(v) {
		errs[FieldName] = MsgName
	}
	if v, ok := f[FieldEmail]; ok && !ValidEmail(v) {
		errs[FieldEmail] = MsgEmail
	}
	if v, ok := f[FieldPassword]; ok && !ValidPassword(v) {
		errs[FieldPassword] = MsgPassword
	}
	if v, ok := f[FieldConfirmPassword]; ok {
		pw, hasPw := f[FieldPassword]
		if !hasPw || pw != v {
			errs[FieldConfirmPassword] = MsgConfirmPassword
		}
	}
	return errs
}
