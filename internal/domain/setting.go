package domain

import "time"

// SettingLoginMessage keys the banner shown on the login screen.
const SettingLoginMessage = "login_message"

// DefaultLoginMessage is used when no banner has been configured.
const DefaultLoginMessage = "Please log in to continue."

// Setting is a key/value pair with upsert semantics.
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
