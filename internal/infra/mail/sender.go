package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/rotisserie/eris"
	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templatesFS embed.FS

var alertTemplate = template.Must(template.ParseFS(templatesFS, "templates/qualified_lead.html"))

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return NewEmailSenderWithDialer(gomail.NewDialer(host, port, user, password), from)
}

func NewEmailSenderWithDialer(d Dialer, from string) *EmailSender {
	return &EmailSender{From: from, dialer: d}
}

func (s *EmailSender) SendQualifiedLeadAlert(to string, data LeadAlertData) error {
	body, err := renderAlert(data)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subjectFor(data))
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return eris.Wrap(err, "mail: send qualified lead alert")
	}
	return nil
}

func subjectFor(data LeadAlertData) string {
	if data.CompanyName != "" {
		return fmt.Sprintf("New qualified lead: %s (%s), score %d", data.Name, data.CompanyName, data.Score)
	}
	return fmt.Sprintf("New qualified lead: %s, score %d", data.Name, data.Score)
}

func renderAlert(data LeadAlertData) (string, error) {
	var body bytes.Buffer
	if err := alertTemplate.Execute(&body, data); err != nil {
		return "", eris.Wrap(err, "mail: render alert template")
	}
	return body.String(), nil
}
