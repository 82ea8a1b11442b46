package model

import "time"

// Contact statuses. Only active contacts are resolved into a send.
const (
	ContactActive   = "active"
	ContactInactive = "inactive"
)

type Contact struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
