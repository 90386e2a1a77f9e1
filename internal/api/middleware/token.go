package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName is the portal's own session cookie. Its value is a signed
// token carrying nothing but the session ID; the identity itself lives in the
// server-side snapshot.
const SessionCookieName = "__vetcare_portal_session"

// TokenCodec signs and verifies the session cookie value (HS256).
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenCodec(secret string, ttl time.Duration) TokenCodec {
	return TokenCodec{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given session ID.
func (tc TokenCodec) Issue(sid string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sid,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tc.ttl)),
	})
	return token.SignedString(tc.secret)
}

// Decode verifies the token and returns the session ID. Any failure yields an
// error; callers treat that as "no session".
func (tc TokenCodec) Decode(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return tc.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !tkn.Valid || claims.Subject == "" {
		return "", fmt.Errorf("invalid session token")
	}
	return claims.Subject, nil
}

// Cookie wraps a signed token in the portal session cookie.
func (tc TokenCodec) Cookie(token string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(tc.ttl),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie returns a cookie that removes the session cookie client-side.
func ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:    SessionCookieName,
		Value:   "",
		Path:    "/",
		Expires: time.Now().Add(-time.Hour),
	}
}
