package mail

import (
	"context"

	"github.com/xavierca1/lead-intake/internal/infra/queue"
)

// AlertNotifier adapts EmailSender to queue.LeadNotifier, sending every
// alert to a fixed sales inbox.
type AlertNotifier struct {
	Sender *EmailSender
	To     string
}

func NewAlertNotifier(sender *EmailSender, to string) *AlertNotifier {
	return &AlertNotifier{Sender: sender, To: to}
}

func (n *AlertNotifier) NotifyQualifiedLead(_ context.Context, event queue.LeadCreatedEvent) error {
	return n.Sender.SendQualifiedLeadAlert(n.To, LeadAlertData{
		LeadID:      event.LeadID,
		Name:        event.Name,
		Email:       event.Email,
		CompanyName: event.CompanyName,
		Industry:    event.Industry,
		Country:     event.Country,
		Score:       event.Score,
	})
}
