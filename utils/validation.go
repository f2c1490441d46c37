package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	timeRegex  = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)
	dateRegex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	digitRegex = regexp.MustCompile(`\D`)

	validate = validator.New()
)

// FieldErrors converts a gin binding error into per-field messages. A
// non-validation error (malformed JSON) gets a single catch-all entry.
func FieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "body", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: fieldMessage(fe),
		})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Please provide a valid email"
	case "min":
		return fmt.Sprintf("Must be at least %s characters long", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters long", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("Failed validation on '%s'", fe.Tag())
	}
}

// ValidEmail checks a standalone value, used for partial updates where
// binding tags do not apply.
func ValidEmail(s string) bool {
	return validate.Var(s, "email") == nil
}

// ValidPhone requires at least 10 digits once separators are stripped.
func ValidPhone(s string) bool {
	return len(digitRegex.ReplaceAllString(s, "")) >= 10
}

// ValidTimeHHMM matches a 24h HH:MM clock value.
func ValidTimeHHMM(s string) bool {
	return timeRegex.MatchString(s)
}

// ValidDateYMD matches a YYYY-MM-DD calendar value.
func ValidDateYMD(s string) bool {
	return dateRegex.MatchString(s)
}

// CheckPasswordStrength mirrors the strength meter on the register form.
func CheckPasswordStrength(password string) string {
	var strength int
	if regexp.MustCompile(`[a-z]`).MatchString(password) {
		strength++
	}
	if regexp.MustCompile(`[A-Z]`).MatchString(password) {
		strength++
	}
	if regexp.MustCompile(`\d`).MatchString(password) {
		strength++
	}
	if regexp.MustCompile(`[@$!%*?&#]`).MatchString(password) {
		strength++
	}
	if len(password) >= 12 {
		strength++
	}

	switch {
	case strength <= 2:
		return "weak"
	case strength <= 3:
		return "medium"
	default:
		return "strong"
	}
}

// ValidPassword enforces the minimum register rule: 8+ characters with at
// least one uppercase letter, one lowercase letter and one digit.
func ValidPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	return regexp.MustCompile(`[a-z]`).MatchString(password) &&
		regexp.MustCompile(`[A-Z]`).MatchString(password) &&
		regexp.MustCompile(`\d`).MatchString(password)
}
