package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// SMTP delivers directly over one synchronous SMTP conversation per message.
type SMTP struct {
	Addr      string
	FromName  string
	FromEmail string
	Auth      smtp.Auth
}

func (t *SMTP) Send(msg *Message) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s <%s>\r\n", t.FromName, t.FromEmail)
	fmt.Fprintf(&sb, "To: %s\r\n", msg.To)
	fmt.Fprintf(&sb, "Subject: %s\r\n", msg.Subject)
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(msg.HTML)

	return smtp.SendMail(t.Addr, t.Auth, t.FromEmail, []string{msg.To}, []byte(sb.String()))
}

var _ Transport = (*SMTP)(nil)
