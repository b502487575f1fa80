package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// Sentinel errors returned by VerifySessionToken. Expiry is reported
// separately from structural damage so the middleware can tell an honest
// timed-out session apart from a forged or truncated token. Callers treat
// both the same way (drop the credential), but the distinction matters for
// logging.
var (
	ErrTokenExpired   = errors.New("session token expired")
	ErrTokenMalformed = errors.New("session token malformed")
)

// SessionClaims is the identity payload embedded in a session token. It
// carries everything the UI and the authorization middleware need to know
// about the caller so that no database lookup is required per request.
// The password hash is never part of the claims.
type SessionClaims struct {
	AccountID uint64 `json:"account_id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// SessionToken pairs a signed token string with its expiry so callers can
// set the cookie max-age to match.
type SessionToken struct {
	Token string
	Exp   time.Time
}

// IssueSessionToken builds and signs an HS256 JWT for an account. The
// caller passes an account snapshot that already excludes the password
// hash. The TTL is given in minutes and the expiry is embedded in the
// standard exp claim; validity is fully determined by signature and expiry,
// nothing is stored server side.
func IssueSessionToken(secret string, accountID uint64, firstName, lastName, email, role string, ttlMin int) (SessionToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := SessionClaims{
		AccountID: accountID,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// VerifySessionToken checks signature and expiry of a session token and
// returns its claims. It is purely cryptographic/structural: no database
// is consulted. A token past its expiry yields ErrTokenExpired; any other
// parse or signature failure yields ErrTokenMalformed. No leeway is
// applied, so a token with expiry T is rejected strictly after T.
func VerifySessionToken(secret, raw string) (*SessionClaims, error) {
	tok, err := jwt.ParseWithClaims(raw, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		// Reject any signing method other than the one we issue with.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenMalformed
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}
	claims, ok := tok.Claims.(*SessionClaims)
	if !ok || !tok.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
