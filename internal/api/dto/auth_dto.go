package dto

import "time"

// LoginRequest is the login form. Both form and JSON bodies are accepted.
type LoginRequest struct {
	EmployeeName string `json:"employee_name" form:"employee_name"`
	Password     string `json:"password" form:"password"`
}

// LoginResponse describes the session that was just issued.
type LoginResponse struct {
	Role       string    `json:"role"`
	EmployeeID *int64    `json:"employee_id,omitempty"`
	ExpiresAt  time.Time `json:"expires_at"`
	Redirect   string    `json:"redirect"`
}

// LoginPageResponse is returned by GET /login.
type LoginPageResponse struct {
	LoginMessage  string `json:"login_message"`
	Authenticated bool   `json:"authenticated"`
}

// SettingsRequest updates general settings.
type SettingsRequest struct {
	LoginMessage string `json:"login_message" form:"login_message"`
}

// SettingsResponse lists general settings.
type SettingsResponse struct {
	LoginMessage string `json:"login_message"`
}
