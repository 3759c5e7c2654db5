package domain

import "time"

// Call is one logged inbound call. PropertyValue is the raw text the
// employee typed; nil means no value applies.
type Call struct {
	ID            int64
	EmployeeID    int64
	PersonName    string
	PersonNumber  string
	Answered      bool
	Outcome       string
	PropertyValue *string
	CreatedAt     time.Time
}
