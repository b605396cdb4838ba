package model

// User is the profile returned by the backend alongside auth and settings
// responses.
type User struct {
	ID             int      `json:"id,omitempty"`
	Username       string   `json:"username"`
	City           string   `json:"city"`
	SleepGoalHours *float64 `json:"sleep_goal_hours,omitempty"`
	MorningTime    string   `json:"morning_time,omitempty"`
	EveningTime    string   `json:"evening_time,omitempty"`
	CreatedAt      string   `json:"created_at,omitempty"` // ISO 8601, no zone
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the body returned by a successful login.
type LoginResponse struct {
	Message      string `json:"message"`
	User         *User  `json:"user,omitempty"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	City     string `json:"city"`
}

// RegisterResponse is the body returned by a successful registration.
type RegisterResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user,omitempty"`
}

// MeResponse is the body of GET /auth/me.
type MeResponse struct {
	User User `json:"user"`
}
