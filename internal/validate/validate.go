// Package validate implements the declarative field validation applied to
// every mutating endpoint before persistence is touched. Each endpoint has
// a rule set that normalizes its form values and collects every violation
// into an Outcome; rules never short-circuit, so the caller sees all of
// their problems in a single round trip. Handlers re-render the originating
// form with the collected errors and the already-typed values — a failed
// submission never partially applies.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// FieldError names one violated rule on one field. Field matches the form
// input name so the renderer can attach the message next to the input.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Outcome is the ordered list of field errors produced by a rule set. It is
// the single error container every renderer consumes, regardless of which
// code path produced the errors (rule set, uniqueness check, or an inline
// check in an orchestrator).
type Outcome []FieldError

// Add appends a violation to the outcome.
func (o *Outcome) Add(field, message string) {
	*o = append(*o, FieldError{Field: field, Message: message})
}

// OK reports whether the outcome carries no violations.
func (o Outcome) OK() bool { return len(o) == 0 }

// emailRe matches a standard local@domain address shape. It is not an RFC
// 5322 parser; the persistence layer's unique index is the final arbiter.
var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

// alnumRe restricts classification names to letters and digits only.
var alnumRe = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// yearRe requires exactly four digits before the numeric range is checked.
var yearRe = regexp.MustCompile(`^\d{4}$`)

// requireTrimmed trims the value in place and records a violation when the
// result is empty. It returns the trimmed value for further rules.
func requireTrimmed(o *Outcome, field, label string, v *string) string {
	*v = strings.TrimSpace(*v)
	if *v == "" {
		o.Add(field, label+" is required.")
	}
	return *v
}

// Length rules count characters, not bytes, so multibyte input is bounded
// by what the user actually typed.
func maxLen(o *Outcome, field, label, v string, max int) {
	if v != "" && utf8.RuneCountInString(v) > max {
		o.Add(field, fmt.Sprintf("%s cannot exceed %d characters.", label, max))
	}
}

func checkEmail(o *Outcome, field, v string) {
	if v == "" {
		return
	}
	maxLen(o, field, "Email", v, 100)
	if !emailRe.MatchString(v) {
		o.Add(field, "A valid email address is required.")
	}
}

// checkYear enforces the 4-digit shape and the [1900, currentYear+1] range.
// It returns the parsed year when valid, else 0.
func checkYear(o *Outcome, field, v string) int {
	if v == "" {
		return 0
	}
	if !yearRe.MatchString(v) {
		o.Add(field, "Year must be a 4-digit number.")
		return 0
	}
	year := int(v[0]-'0')*1000 + int(v[1]-'0')*100 + int(v[2]-'0')*10 + int(v[3]-'0')
	maxYear := time.Now().Year() + 1
	if year < 1900 || year > maxYear {
		o.Add(field, fmt.Sprintf("Year must be between 1900 and %d.", maxYear))
		return 0
	}
	return year
}

// checkAssetPath enforces the fixed asset-root prefix on image and
// thumbnail paths so inventory rows can never point outside the public
// image directory.
func checkAssetPath(o *Outcome, field, label, v string) {
	if v != "" && !strings.HasPrefix(v, assetRoot) {
		o.Add(field, fmt.Sprintf("%s must start with '%s'.", label, assetRoot))
	}
}

const assetRoot = "/images/"

// Password strength bounds for registration and password change.
const (
	passwordMinLen = 12
	passwordMaxLen = 255
)

// checkPassword enforces the password policy: length 12-255, at least one
// digit, one lowercase, one uppercase, one symbol, and no whitespace of any
// kind. Every unmet requirement is reported, not just the first.
func checkPassword(o *Outcome, field, v string) {
	if v == "" {
		o.Add(field, "Password is required.")
		return
	}
	if n := utf8.RuneCountInString(v); n < passwordMinLen {
		o.Add(field, fmt.Sprintf("Password must be at least %d characters long.", passwordMinLen))
	} else if n > passwordMaxLen {
		o.Add(field, fmt.Sprintf("Password cannot exceed %d characters.", passwordMaxLen))
	}
	var hasDigit, hasLower, hasUpper, hasSymbol, hasSpace bool
	for _, r := range v {
		switch {
		case unicode.IsSpace(r):
			hasSpace = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		default:
			hasSymbol = true
		}
	}
	if !hasDigit {
		o.Add(field, "Password must contain at least one digit.")
	}
	if !hasLower {
		o.Add(field, "Password must contain at least one lowercase letter.")
	}
	if !hasUpper {
		o.Add(field, "Password must contain at least one uppercase letter.")
	}
	if !hasSymbol {
		o.Add(field, "Password must contain at least one special character.")
	}
	if hasSpace {
		o.Add(field, "Password cannot contain spaces.")
	}
}
