package session

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSubject is returned when the access token carries no usable subject.
var ErrNoSubject = errors.New("access token has no subject")

// Subject decodes the access token without verifying it and returns its
// "sub" claim. It is for display only (greeting the user); the backend is
// the sole judge of whether the token is valid.
func Subject(accessToken string) (string, error) {
	if accessToken == "" {
		return "", ErrNoSubject
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return "", err
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return "", err
	}
	if sub == "" {
		return "", ErrNoSubject
	}
	return sub, nil
}

// Username returns the subject of the current access token, or "" if there
// is none or it cannot be decoded.
func (t *Tokens) Username() string {
	sub, err := Subject(t.Get().AccessToken)
	if err != nil {
		return ""
	}
	return sub
}
