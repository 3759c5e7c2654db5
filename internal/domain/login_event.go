package domain

import "time"

// LoginEvent records one successful employee login. EmployeeID is kept as
// text.
type LoginEvent struct {
	ID         int64
	EmployeeID string
	CreatedAt  time.Time
}
