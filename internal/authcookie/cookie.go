package authcookie

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RefreshCookie is the HttpOnly cookie carrying the long-lived refresh
// credential. It is scoped to /auth so only the auth endpoints see it.
const (
	RefreshCookie = "refresh"
	Path          = "/auth"
)

func Create(value string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     RefreshCookie,
		Value:    value,
		Path:     Path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func Delete() *http.Cookie {
	return &http.Cookie{
		Name:     RefreshCookie,
		Value:    "",
		Path:     Path,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func Sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func NewJTI() string { return uuid.NewString() }
