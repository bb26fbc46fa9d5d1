package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rotisserie/eris"
)

type LeadCreatedEvent struct {
	LeadID      string    `json:"lead_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Website     string    `json:"website,omitempty"`
	CompanyName string    `json:"company_name,omitempty"`
	CompanySize string    `json:"company_size,omitempty"`
	Industry    string    `json:"industry,omitempty"`
	Country     string    `json:"country,omitempty"`
	Score       int       `json:"score"`
	Qualified   bool      `json:"qualified"`
	CreatedAt   time.Time `json:"created_at"`
}

// Publisher is the subset of *amqp091.Channel the producer needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

type RabbitMQProducer struct {
	Ch Publisher
}

func NewProducer(ch Publisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishLeadCreated(ctx context.Context, event LeadCreatedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return eris.Wrap(err, "queue: encode lead.created")
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			MessageId:    event.LeadID,
			Timestamp:    event.CreatedAt,
			Body:         body,
			DeliveryMode: amqp091.Persistent,
		},
	)
	if err != nil {
		return eris.Wrap(err, "queue: publish lead.created")
	}

	return nil
}
