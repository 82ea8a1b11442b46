// Package mailer delivers rendered campaign emails. The Transport interface
// is the seam between the send orchestrator and the outside world; a failed
// Send is counted against the recipient, never raised against the batch.
package mailer

// Message is one fully-rendered email to one recipient.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type Transport interface {
	Send(msg *Message) error
}
