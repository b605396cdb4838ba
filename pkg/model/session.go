package model

// Session holds the credentials of the signed-in user.
// An empty field means the value is absent.
type Session struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// IsAuthenticated reports whether an access token is present.
// The token is never validated locally; a rejected token is only noticed
// when the backend answers 401.
func (s Session) IsAuthenticated() bool {
	return s.AccessToken != ""
}

// IsZero reports whether both tokens are absent.
func (s Session) IsZero() bool {
	return s.AccessToken == "" && s.RefreshToken == ""
}
