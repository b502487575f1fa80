package validate

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// One form struct per endpoint. Fields mirror the POST parameter names;
// the rule set trims and normalizes values in place so orchestrators can
// persist the struct contents directly after a passing outcome. Parsed
// numeric fields (Year, Price, Miles, IDs) are populated by the rule set.

// RegistrationForm carries the POST /account/register payload.
type RegistrationForm struct {
	FirstName string `json:"firstname" form:"firstname"`
	LastName  string `json:"lastname" form:"lastname"`
	Email     string `json:"email" form:"email"`
	Password  string `json:"password" form:"password"`
}

// Registration runs the registration rule set. Email uniqueness is checked
// by the orchestrator against the account store and appended to the same
// outcome.
func Registration(f *RegistrationForm) Outcome {
	var o Outcome
	first := requireTrimmed(&o, "firstname", "First name", &f.FirstName)
	maxLen(&o, "firstname", "First name", first, 50)
	last := requireTrimmed(&o, "lastname", "Last name", &f.LastName)
	maxLen(&o, "lastname", "Last name", last, 50)
	email := requireTrimmed(&o, "email", "Email", &f.Email)
	f.Email = strings.ToLower(email)
	checkEmail(&o, "email", f.Email)
	checkPassword(&o, "password", f.Password)
	return o
}

// LoginForm carries the POST /account/login payload.
type LoginForm struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Login only checks presence and email shape. Credential correctness is the
// credential store's job and always fails with a generic notice.
func Login(f *LoginForm) Outcome {
	var o Outcome
	email := requireTrimmed(&o, "email", "Email", &f.Email)
	f.Email = strings.ToLower(email)
	checkEmail(&o, "email", f.Email)
	if f.Password == "" {
		o.Add("password", "Password is required.")
	}
	return o
}

// AccountUpdateForm carries the POST /account/update-account payload.
type AccountUpdateForm struct {
	FirstName string `json:"firstname" form:"firstname"`
	LastName  string `json:"lastname" form:"lastname"`
	Email     string `json:"email" form:"email"`
	AccountID string `json:"account_id" form:"account_id"`

	ParsedAccountID uint64 `json:"-" form:"-"`
}

// AccountUpdate runs the profile-update rule set.
func AccountUpdate(f *AccountUpdateForm) Outcome {
	var o Outcome
	first := requireTrimmed(&o, "firstname", "First name", &f.FirstName)
	maxLen(&o, "firstname", "First name", first, 50)
	last := requireTrimmed(&o, "lastname", "Last name", &f.LastName)
	maxLen(&o, "lastname", "Last name", last, 50)
	email := requireTrimmed(&o, "email", "Email", &f.Email)
	f.Email = strings.ToLower(email)
	checkEmail(&o, "email", f.Email)
	f.ParsedAccountID = checkID(&o, "account_id", f.AccountID)
	return o
}

// PasswordChange runs the rule set for POST /account/update-password.
func PasswordChange(password, accountID string) (Outcome, uint64) {
	var o Outcome
	checkPassword(&o, "password", password)
	id := checkID(&o, "account_id", accountID)
	return o, id
}

// ClassificationForm carries the POST /inv/add-classification payload.
type ClassificationForm struct {
	Name string `json:"classification_name" form:"classification_name"`
}

// Classification enforces the name charset and length rules: at least two
// characters, letters and digits only, no spaces or punctuation.
func Classification(f *ClassificationForm) Outcome {
	var o Outcome
	name := requireTrimmed(&o, "classification_name", "Classification name", &f.Name)
	if name == "" {
		return o
	}
	if len(name) < 2 {
		o.Add("classification_name", "Classification name must be at least 2 characters long.")
	}
	if !alnumRe.MatchString(name) {
		o.Add("classification_name", "Classification name can only contain letters and numbers, no spaces or special characters.")
	}
	return o
}

// InventoryForm carries the POST /inv/add-inventory and /inv/update
// payloads. Raw string fields bind directly from the form; the rule set
// fills the parsed fields when their raw counterparts pass.
type InventoryForm struct {
	InvID            string `json:"inv_id" form:"inv_id"` // only present on update
	Make             string `json:"inv_make" form:"inv_make"`
	Model            string `json:"inv_model" form:"inv_model"`
	Year             string `json:"inv_year" form:"inv_year"`
	Description      string `json:"inv_description" form:"inv_description"`
	Image            string `json:"inv_image" form:"inv_image"`
	Thumbnail        string `json:"inv_thumbnail" form:"inv_thumbnail"`
	Price            string `json:"inv_price" form:"inv_price"`
	Miles            string `json:"inv_miles" form:"inv_miles"`
	Color            string `json:"inv_color" form:"inv_color"`
	ClassificationID string `json:"classification_id" form:"classification_id"`

	ParsedInvID            uint64  `json:"-" form:"-"`
	ParsedYear             int     `json:"-" form:"-"`
	ParsedPrice            float64 `json:"-" form:"-"`
	ParsedMiles            int64   `json:"-" form:"-"`
	ParsedClassificationID uint64  `json:"-" form:"-"`
}

// Inventory runs the vehicle rule set shared by create and update. When
// forUpdate is set, inv_id must also be a positive integer.
func Inventory(f *InventoryForm, forUpdate bool) Outcome {
	var o Outcome
	requireTrimmed(&o, "inv_make", "Make", &f.Make)
	requireTrimmed(&o, "inv_model", "Model", &f.Model)
	year := requireTrimmed(&o, "inv_year", "Year", &f.Year)
	f.ParsedYear = checkYear(&o, "inv_year", year)
	requireTrimmed(&o, "inv_description", "Description", &f.Description)
	image := requireTrimmed(&o, "inv_image", "Image path", &f.Image)
	checkAssetPath(&o, "inv_image", "Image path", image)
	thumb := requireTrimmed(&o, "inv_thumbnail", "Thumbnail path", &f.Thumbnail)
	checkAssetPath(&o, "inv_thumbnail", "Thumbnail path", thumb)

	price := strings.TrimSpace(f.Price)
	f.Price = price
	if price == "" {
		o.Add("inv_price", "Price is required.")
	} else if p, err := strconv.ParseFloat(price, 64); err != nil || p < 0 {
		o.Add("inv_price", "Price must be a valid number greater than or equal to 0.")
	} else {
		f.ParsedPrice = p
	}

	miles := strings.TrimSpace(f.Miles)
	f.Miles = miles
	if miles == "" {
		o.Add("inv_miles", "Mileage is required.")
	} else if m, err := strconv.ParseInt(miles, 10, 64); err != nil || m < 0 {
		o.Add("inv_miles", "Mileage must be a valid number greater than or equal to 0.")
	} else {
		f.ParsedMiles = m
	}

	requireTrimmed(&o, "inv_color", "Color", &f.Color)

	if strings.TrimSpace(f.ClassificationID) == "" {
		o.Add("classification_id", "Please select a classification.")
	} else {
		f.ParsedClassificationID = checkID(&o, "classification_id", f.ClassificationID)
	}

	if forUpdate {
		f.ParsedInvID = checkID(&o, "inv_id", f.InvID)
	}
	return o
}

// Review text bounds.
const (
	reviewMinLen = 10
	reviewMaxLen = 1000
)

// ReviewForm carries the review create/update payloads. AccountID is never
// read from the form for authorization purposes; the ownership key always
// comes from the session claims.
type ReviewForm struct {
	Text     string `json:"review_text" form:"review_text"`
	InvID    string `json:"inv_id" form:"inv_id"`
	ReviewID string `json:"review_id" form:"review_id"`

	ParsedInvID    uint64 `json:"-" form:"-"`
	ParsedReviewID uint64 `json:"-" form:"-"`
}

// ReviewCreate validates text bounds and the target inventory id.
func ReviewCreate(f *ReviewForm) Outcome {
	var o Outcome
	checkReviewText(&o, f)
	f.ParsedInvID = checkID(&o, "inv_id", f.InvID)
	return o
}

// ReviewUpdate validates text bounds and the review id.
func ReviewUpdate(f *ReviewForm) Outcome {
	var o Outcome
	checkReviewText(&o, f)
	f.ParsedReviewID = checkID(&o, "review_id", f.ReviewID)
	return o
}

func checkReviewText(o *Outcome, f *ReviewForm) {
	f.Text = strings.TrimSpace(f.Text)
	if f.Text == "" {
		o.Add("review_text", "Review text is required.")
		return
	}
	// Character bounds, not byte bounds.
	n := utf8.RuneCountInString(f.Text)
	if n < reviewMinLen {
		o.Add("review_text", "Review must be at least 10 characters long.")
	}
	if n > reviewMaxLen {
		o.Add("review_text", "Review cannot exceed 1000 characters.")
	}
}

// checkID parses a positive integer identifier and records a violation on
// failure. The zero return doubles as the invalid marker.
func checkID(o *Outcome, field, v string) uint64 {
	id, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
	if err != nil || id == 0 {
		o.Add(field, "A valid "+strings.ReplaceAll(field, "_", " ")+" is required.")
		return 0
	}
	return id
}
