package model

import (
	"time"

	"github.com/plumepress/newsletter-backend/internal/block"
)

// Campaign send lifecycle states.
const (
	StatusDraft   = "draft"
	StatusSending = "sending"
	StatusSent    = "sent"
	StatusError   = "error"
)

type Campaign struct {
	ID               int           `json:"id"`
	Title            string        `json:"title"`
	Blocks           block.Blocks  `json:"blocks"`
	Status           string        `json:"status"`
	Published        bool          `json:"published"`
	Locked           bool          `json:"locked"`
	SentCount        int           `json:"sent_count"`
	SentAt           *time.Time    `json:"sent_at,omitempty"`
	AudienceID       *int          `json:"audience_id,omitempty"`
	FailedRecipients []string      `json:"failed_recipients,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        *time.Time    `json:"updated_at,omitempty"`
}
