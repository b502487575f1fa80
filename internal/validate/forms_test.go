package validate

import (
	"strings"
	"testing"
)

func TestRegistration(t *testing.T) {
	f := RegistrationForm{
		FirstName: "  Grace ",
		LastName:  "Hopper",
		Email:     "  Grace.Hopper@Example.COM ",
		Password:  "C0mpilers!Rock",
	}
	o := Registration(&f)
	if !o.OK() {
		t.Fatalf("unexpected violations: %v", o)
	}
	if f.FirstName != "Grace" {
		t.Errorf("FirstName = %q, want trimmed", f.FirstName)
	}
	if f.Email != "grace.hopper@example.com" {
		t.Errorf("Email = %q, want trimmed and lowercased", f.Email)
	}
}

func TestRegistration_CollectsEveryViolation(t *testing.T) {
	f := RegistrationForm{Email: "bad", Password: "weak"}
	o := Registration(&f)
	fields := map[string]bool{}
	for _, fe := range o {
		fields[fe.Field] = true
	}
	for _, want := range []string{"firstname", "lastname", "email", "password"} {
		if !fields[want] {
			t.Errorf("no violation recorded for %q: %v", want, o)
		}
	}
}

func TestLogin(t *testing.T) {
	f := LoginForm{Email: " USER@example.com ", Password: "anything"}
	if o := Login(&f); !o.OK() {
		t.Fatalf("unexpected violations: %v", o)
	}
	if f.Email != "user@example.com" {
		t.Errorf("Email = %q", f.Email)
	}

	empty := LoginForm{}
	o := Login(&empty)
	if len(o) != 2 {
		t.Errorf("want email and password violations, got %v", o)
	}
}

func TestAccountUpdate(t *testing.T) {
	f := AccountUpdateForm{FirstName: "A", LastName: "B", Email: "a@b.co", AccountID: "7"}
	if o := AccountUpdate(&f); !o.OK() {
		t.Fatalf("unexpected violations: %v", o)
	}
	if f.ParsedAccountID != 7 {
		t.Errorf("ParsedAccountID = %d", f.ParsedAccountID)
	}

	bad := AccountUpdateForm{FirstName: "A", LastName: "B", Email: "a@b.co", AccountID: "zero"}
	if o := AccountUpdate(&bad); o.OK() {
		t.Error("non-numeric account_id accepted")
	}
}

func TestPasswordChange(t *testing.T) {
	o, id := PasswordChange("Str0ng!Passw0rd", "3")
	if !o.OK() || id != 3 {
		t.Errorf("ok=%v id=%d violations=%v", o.OK(), id, o)
	}

	o, id = PasswordChange("short", "3")
	if o.OK() || id != 3 {
		t.Errorf("weak password accepted (id=%d, violations=%v)", id, o)
	}

	o, id = PasswordChange("Str0ng!Passw0rd", "0")
	if o.OK() || id != 0 {
		t.Errorf("zero account_id accepted (id=%d)", id)
	}
}

func TestClassification(t *testing.T) {
	tests := []struct {
		name string
		in   string
		ok   bool
	}{
		{"simple", "Sedan", true},
		{"digits ok", "SUV4x4", true},
		{"trimmed", "  Truck  ", true},
		{"space rejected", "Sedan Cars", false},
		{"punctuation rejected", "Semi-Truck", false},
		{"too short", "S", false},
		{"empty", "   ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ClassificationForm{Name: tt.in}
			o := Classification(&f)
			if o.OK() != tt.ok {
				t.Errorf("Classification(%q) ok = %v, want %v (%v)", tt.in, o.OK(), tt.ok, o)
			}
		})
	}
}

func validInventoryForm() InventoryForm {
	return InventoryForm{
		Make:             "Toyota",
		Model:            "Corolla",
		Year:             "2020",
		Description:      "Reliable commuter",
		Image:            "/images/corolla.jpg",
		Thumbnail:        "/images/corolla-tn.jpg",
		Price:            "18999.50",
		Miles:            "42000",
		Color:            "Blue",
		ClassificationID: "2",
	}
}

func TestInventory_Create(t *testing.T) {
	f := validInventoryForm()
	o := Inventory(&f, false)
	if !o.OK() {
		t.Fatalf("unexpected violations: %v", o)
	}
	if f.ParsedYear != 2020 || f.ParsedPrice != 18999.50 || f.ParsedMiles != 42000 || f.ParsedClassificationID != 2 {
		t.Errorf("parsed fields: year=%d price=%v miles=%d class=%d",
			f.ParsedYear, f.ParsedPrice, f.ParsedMiles, f.ParsedClassificationID)
	}
}

func TestInventory_Update_RequiresInvID(t *testing.T) {
	f := validInventoryForm()
	if o := Inventory(&f, true); o.OK() {
		t.Error("update without inv_id accepted")
	}
	f = validInventoryForm()
	f.InvID = "11"
	o := Inventory(&f, true)
	if !o.OK() || f.ParsedInvID != 11 {
		t.Errorf("ok=%v ParsedInvID=%d violations=%v", o.OK(), f.ParsedInvID, o)
	}
}

func TestInventory_BadNumbers(t *testing.T) {
	f := validInventoryForm()
	f.Price = "-5"
	f.Miles = "12k"
	f.Year = "1850"
	o := Inventory(&f, false)
	for _, field := range []string{"inv_price", "inv_miles", "inv_year"} {
		if len(messagesFor(o, field)) == 0 {
			t.Errorf("no violation recorded for %q: %v", field, o)
		}
	}
}

func TestReviewCreate(t *testing.T) {
	f := ReviewForm{Text: "  Great car, would buy again.  ", InvID: "5"}
	o := ReviewCreate(&f)
	if !o.OK() || f.ParsedInvID != 5 {
		t.Fatalf("ok=%v ParsedInvID=%d violations=%v", o.OK(), f.ParsedInvID, o)
	}
	if strings.HasPrefix(f.Text, " ") {
		t.Errorf("text not trimmed: %q", f.Text)
	}

	short := ReviewForm{Text: "meh", InvID: "5"}
	if o := ReviewCreate(&short); o.OK() {
		t.Error("under-length review accepted")
	}

	long := ReviewForm{Text: strings.Repeat("x", 1001), InvID: "5"}
	if o := ReviewCreate(&long); o.OK() {
		t.Error("over-length review accepted")
	}
}

// Review bounds are character counts, so short multibyte text stays below
// the minimum and long multibyte text is judged by what was typed, not by
// its encoded size.
func TestReviewCreate_MultibyteLength(t *testing.T) {
	short := ReviewForm{Text: "ちょっと", InvID: "5"}
	if o := ReviewCreate(&short); o.OK() {
		t.Error("4-character review accepted despite 10-character minimum")
	}

	atCap := ReviewForm{Text: strings.Repeat("車", 1000), InvID: "5"}
	if o := ReviewCreate(&atCap); !o.OK() {
		t.Errorf("1000-character multibyte review rejected: %v", o)
	}

	overCap := ReviewForm{Text: strings.Repeat("車", 1001), InvID: "5"}
	if o := ReviewCreate(&overCap); o.OK() {
		t.Error("1001-character review accepted")
	}
}

func TestReviewUpdate(t *testing.T) {
	f := ReviewForm{Text: "Updated thoughts on this one.", ReviewID: "9"}
	o := ReviewUpdate(&f)
	if !o.OK() || f.ParsedReviewID != 9 {
		t.Fatalf("ok=%v ParsedReviewID=%d violations=%v", o.OK(), f.ParsedReviewID, o)
	}

	bad := ReviewForm{Text: "Updated thoughts on this one.", ReviewID: "-1"}
	if o := ReviewUpdate(&bad); o.OK() {
		t.Error("negative review_id accepted")
	}
}
