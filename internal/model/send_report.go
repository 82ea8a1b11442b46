package model

import "time"

// SendReport is the outcome of one campaign send.
type SendReport struct {
	CampaignID       int       `json:"campaign_id"`
	SentCount        int       `json:"sent_count"`
	FailedCount      int       `json:"failed_count"`
	FailedRecipients []string  `json:"failed_recipients,omitempty"`
	SentAt           time.Time `json:"sent_at"`
}
