package domain

import "time"

// Employee is the aggregate root for calls and login events.
type Employee struct {
	ID           int64
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}
