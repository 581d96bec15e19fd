// Package validation implements the form validation rules for the sign-in
// and sign-up forms. Validation is pure: it inspects the submitted fields
// and returns either nil (pass) or an *Error carrying the structured issues
// plus the exact message shown to the user. It never touches the network.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dailykharcha/kharcha/internal/core/domain"
)

// Code classifies a single validation failure.
type Code string

const (
	CodeMissingFields        Code = "missing_fields"
	CodeInvalidEmail         Code = "invalid_email"
	CodePasswordLength       Code = "password_length"
	CodePasswordUppercase    Code = "password_uppercase"
	CodePasswordLowercase    Code = "password_lowercase"
	CodePasswordDigit        Code = "password_digit"
	CodePasswordSymbol       Code = "password_symbol"
	CodePasswordContainsName Code = "password_contains_name"
	CodePasswordMismatch     Code = "password_mismatch"
)

const (
	passwordMinLen = 8
	passwordMaxLen = 32
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

var titleCaser = cases.Title(language.English)

// Issue is one detected rule violation.
type Issue struct {
	Code    Code
	Field   string
	Message string
}

// Error aggregates every issue found in one form submission. The Error()
// string is the complete, ready-to-render message for the form.
type Error struct {
	Issues  []Issue
	message string
}

func (e *Error) Error() string { return e.message }

// Has reports whether any issue carries the given code.
func (e *Error) Has(code Code) bool {
	for _, issue := range e.Issues {
		if issue.Code == code {
			return true
		}
	}
	return false
}

// ValidateLogin checks the sign-in form. Empty fields are reported first;
// a malformed email then fails with a generic message that does not single
// out the email field.
func ValidateLogin(req domain.LoginRequest) *Error {
	if err := missingFields(
		fieldValue{"email", req.Email},
		fieldValue{"password", req.Password},
	); err != nil {
		return err
	}

	if !emailPattern.MatchString(strings.TrimSpace(req.Email)) {
		return &Error{
			Issues:  []Issue{{Code: CodeInvalidEmail, Field: "email", Message: "Invalid email address."}},
			message: "Please enter valid email address and password.",
		}
	}

	return nil
}

// ValidateRegistration checks the sign-up form. Empty fields short-circuit;
// all remaining rules are then evaluated together so the user sees every
// problem at once.
func ValidateRegistration(req domain.RegistrationRequest) *Error {
	if err := missingFields(
		fieldValue{"name", req.Name},
		fieldValue{"email", req.Email},
		fieldValue{"password", req.Password},
		fieldValue{"confirm password", req.ConfirmPassword},
	); err != nil {
		return err
	}

	var issues []Issue
	add := func(code Code, field, msg string) {
		issues = append(issues, Issue{Code: code, Field: field, Message: msg})
	}

	if !emailPattern.MatchString(strings.TrimSpace(req.Email)) {
		add(CodeInvalidEmail, "email", "Invalid email address.")
	}

	name := strings.TrimSpace(req.Name)
	password := strings.TrimSpace(req.Password)
	confirm := strings.TrimSpace(req.ConfirmPassword)

	if n := utf8.RuneCountInString(password); n < passwordMinLen || n > passwordMaxLen {
		add(CodePasswordLength, "password", "Password should be 8 to 32 characters long.")
	}
	if !strings.ContainsFunc(password, isUppercase) {
		add(CodePasswordUppercase, "password", "Password should contain at least one uppercase letter.")
	}
	if !strings.ContainsFunc(password, isLowercase) {
		add(CodePasswordLowercase, "password", "Password should contain at least one lowercase letter.")
	}
	if !strings.ContainsFunc(password, isDigit) {
		add(CodePasswordDigit, "password", "Password should contain at least one number.")
	}
	if !strings.ContainsFunc(password, isSymbol) {
		add(CodePasswordSymbol, "password", "Password should contain at least one special character.")
	}

	if strings.Contains(strings.ToLower(password), strings.ToLower(name)) {
		add(CodePasswordContainsName, "password", "Password should not contain your name.")
	}

	if password != confirm {
		add(CodePasswordMismatch, "confirm password", "Password and Confirm password do not match.")
	}

	if len(issues) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("**Please fix the following errors:**\n\n")
	for i, issue := range issues {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(issue.Message)
	}

	return &Error{Issues: issues, message: b.String()}
}

type fieldValue struct {
	name  string
	value string
}

// missingFields returns an Error naming every empty field, or nil when all
// fields are present. Labels are title-cased and joined as an English list:
// "A", "A and B", "A, B and C".
func missingFields(fields ...fieldValue) *Error {
	var issues []Issue
	var labels []string
	for _, f := range fields {
		if f.value == "" {
			label := "**" + titleCaser.String(f.name) + "**"
			issues = append(issues, Issue{Code: CodeMissingFields, Field: f.name, Message: label})
			labels = append(labels, label)
		}
	}
	if len(issues) == 0 {
		return nil
	}

	list := labels[len(labels)-1]
	if len(labels) > 1 {
		list = strings.Join(labels[:len(labels)-1], ", ") + " and " + list
	}

	return &Error{Issues: issues, message: "Please enter " + list + "."}
}

func isUppercase(r rune) bool { return r >= 'A' && r <= 'Z' }
func isLowercase(r rune) bool { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool     { return r >= '0' && r <= '9' }

// isSymbol matches any rune outside [A-Za-z0-9_].
func isSymbol(r rune) bool {
	return !isUppercase(r) && !isLowercase(r) && !isDigit(r) && r != '_'
}
