package validate

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

// messagesFor collects the messages recorded against one field.
func messagesFor(o Outcome, field string) []string {
	var out []string
	for _, fe := range o {
		if fe.Field == field {
			out = append(out, fe.Message)
		}
	}
	return out
}

func TestCheckPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     []string // substrings expected among the messages
	}{
		{"strong", "Str0ng!Passw0rd", nil},
		{"empty", "", []string{"required"}},
		{"too short", "Ab1!", []string{"at least 12 characters"}},
		{"no digit", "Abcdefgh!jklm", []string{"one digit"}},
		{"no upper", "abcdefgh1!klm", []string{"one uppercase"}},
		{"no lower", "ABCDEFGH1!KLM", []string{"one lowercase"}},
		{"no symbol", "Abcdefgh1jklm", []string{"one special"}},
		{"has space", "Abcde fgh1!klm", []string{"spaces"}},
		{
			// every unmet class is reported at once, not just the first
			"short and weak", "abc",
			[]string{"at least 12 characters", "one digit", "one uppercase", "one special"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var o Outcome
			checkPassword(&o, "password", tt.password)
			if tt.want == nil {
				if !o.OK() {
					t.Fatalf("unexpected violations: %v", o)
				}
				return
			}
			got := strings.Join(messagesFor(o, "password"), " | ")
			for _, sub := range tt.want {
				if !strings.Contains(got, sub) {
					t.Errorf("messages %q missing %q", got, sub)
				}
			}
		})
	}
}

// Length bounds count characters, not UTF-8 bytes.
func TestCheckPassword_MultibyteLength(t *testing.T) {
	// 12 characters with every required class present; half are 3 bytes.
	var o Outcome
	checkPassword(&o, "password", "Pass1!"+strings.Repeat("ん", 6))
	if !o.OK() {
		t.Errorf("12-character multibyte password rejected: %v", o)
	}

	// 255 characters is within the cap even though the byte length is far
	// past it; one more character trips it.
	o = nil
	checkPassword(&o, "password", "Aa1!"+strings.Repeat("é", 251))
	if !o.OK() {
		t.Errorf("255-character multibyte password rejected: %v", o)
	}
	o = nil
	checkPassword(&o, "password", "Aa1!"+strings.Repeat("é", 252))
	if got := strings.Join(messagesFor(o, "password"), " "); !strings.Contains(got, "cannot exceed 255") {
		t.Errorf("256-character password passed the cap: %q", got)
	}
}

func TestMaxLen_CountsCharacters(t *testing.T) {
	var o Outcome
	maxLen(&o, "firstname", "First name", strings.Repeat("ö", 50), 50)
	if !o.OK() {
		t.Errorf("50-character multibyte name rejected: %v", o)
	}
	o = nil
	maxLen(&o, "firstname", "First name", strings.Repeat("ö", 51), 50)
	if o.OK() {
		t.Error("51-character name accepted")
	}
}

func TestCheckPassword_TooLong(t *testing.T) {
	var o Outcome
	checkPassword(&o, "password", "A1!"+strings.Repeat("a", 260))
	if got := strings.Join(messagesFor(o, "password"), " "); !strings.Contains(got, "cannot exceed 255") {
		t.Errorf("messages %q missing length cap", got)
	}
}

func TestCheckEmail(t *testing.T) {
	tests := []struct {
		email string
		ok    bool
	}{
		{"user@example.com", true},
		{"first.last+tag@sub.domain.co", true},
		{"no-at-sign", false},
		{"user@nodot", false},
		{"@example.com", false},
		{"user@.com", false},
	}
	for _, tt := range tests {
		var o Outcome
		checkEmail(&o, "email", tt.email)
		if o.OK() != tt.ok {
			t.Errorf("checkEmail(%q) ok = %v, want %v (%v)", tt.email, o.OK(), tt.ok, o)
		}
	}
}

func TestCheckYear(t *testing.T) {
	next := time.Now().Year() + 1
	tests := []struct {
		raw  string
		want int
	}{
		{"1900", 1900},
		{"2005", 2005},
		{fmt.Sprintf("%d", next), next},
		{fmt.Sprintf("%d", next+1), 0},
		{"1899", 0},
		{"05", 0},
		{"20x5", 0},
		{"20055", 0},
	}
	for _, tt := range tests {
		var o Outcome
		got := checkYear(&o, "inv_year", tt.raw)
		if got != tt.want {
			t.Errorf("checkYear(%q) = %d, want %d", tt.raw, got, tt.want)
		}
		if (tt.want == 0) == o.OK() {
			t.Errorf("checkYear(%q) outcome ok = %v inconsistent with value", tt.raw, o.OK())
		}
	}
}

func TestCheckAssetPath(t *testing.T) {
	var o Outcome
	checkAssetPath(&o, "inv_image", "Image path", "/images/car.jpg")
	if !o.OK() {
		t.Errorf("valid path rejected: %v", o)
	}
	o = nil
	checkAssetPath(&o, "inv_image", "Image path", "/uploads/car.jpg")
	if o.OK() {
		t.Error("path outside /images/ accepted")
	}
	o = nil
	checkAssetPath(&o, "inv_image", "Image path", "images/car.jpg")
	if o.OK() {
		t.Error("relative path accepted")
	}
}

func TestRequireTrimmed(t *testing.T) {
	var o Outcome
	v := "  padded  "
	got := requireTrimmed(&o, "firstname", "First name", &v)
	if got != "padded" || v != "padded" {
		t.Errorf("trim result %q / %q", got, v)
	}
	if !o.OK() {
		t.Errorf("unexpected violations: %v", o)
	}

	o = nil
	blank := "   "
	requireTrimmed(&o, "firstname", "First name", &blank)
	if o.OK() {
		t.Error("whitespace-only value accepted")
	}
}
