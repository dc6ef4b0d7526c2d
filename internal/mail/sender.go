// Package mail is the outbound email transport: SMTP via gomail.
package mail

import (
	"fmt"
	"regexp"

	"gopkg.in/gomail.v2"
)

var addressPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateAddress reports whether addr looks like a deliverable address.
func ValidateAddress(addr string) bool {
	return addressPattern.MatchString(addr)
}

type Sender struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// Send delivers one HTML email. An invalid recipient address or a dialer
// error is returned to the caller; there is no retry at this layer.
func (s *Sender) Send(to, toName, subject, htmlBody string) error {
	if !ValidateAddress(to) {
		return fmt.Errorf("invalid email address: %q", to)
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.From, s.FromName)
	m.SetAddressHeader("To", to, toName)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(s.Host, s.Port, s.Username, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send error: %w", err)
	}

	return nil
}
