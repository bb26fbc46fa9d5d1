package mail

import "gopkg.in/gomail.v2"

type LeadAlertData struct {
	LeadID      string
	Name        string
	Email       string
	CompanyName string
	Industry    string
	Country     string
	Score       int
}

// Dialer is satisfied by *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailSender struct {
	From   string
	dialer Dialer
}
