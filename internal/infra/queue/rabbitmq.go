package queue

import (
	"github.com/rabbitmq/amqp091-go"
	"github.com/rotisserie/eris"
)

const (
	ExchangeName = "ex.leads"
	QueueName    = "q.leads.created"
	DLQName      = "q.leads.created.dlq"
	DLXName      = "ex.leads.dlx" // dead letter exchange
	RoutingKey   = "k.lead.created"
)

type RabbitMQ struct {
	Conn *amqp091.Connection
	Ch   *amqp091.Channel
}

func NewRabbitMQ(url string) (*RabbitMQ, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, eris.Wrap(err, "rabbitmq: dial")
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, eris.Wrap(err, "rabbitmq: open channel")
	}

	if err := setupTopology(ch); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	return &RabbitMQ{Conn: conn, Ch: ch}, nil
}

// Declarer is the subset of *amqp091.Channel needed to declare the topology.
type Declarer interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp091.Table) (amqp091.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp091.Table) error
}

func setupTopology(ch Declarer) error {
	if err := ch.ExchangeDeclare(DLXName, "direct", true, false, false, false, nil); err != nil {
		return eris.Wrapf(err, "rabbitmq: declare exchange %s", DLXName)
	}
	if _, err := ch.QueueDeclare(DLQName, true, false, false, false, nil); err != nil {
		return eris.Wrapf(err, "rabbitmq: declare queue %s", DLQName)
	}
	if err := ch.QueueBind(DLQName, RoutingKey, DLXName, false, nil); err != nil {
		return eris.Wrapf(err, "rabbitmq: bind queue %s", DLQName)
	}

	// rejected messages land in the DLQ under the same key
	args := amqp091.Table{
		"x-dead-letter-exchange":    DLXName,
		"x-dead-letter-routing-key": RoutingKey,
	}

	if err := ch.ExchangeDeclare(ExchangeName, "direct", true, false, false, false, nil); err != nil {
		return eris.Wrapf(err, "rabbitmq: declare exchange %s", ExchangeName)
	}
	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, args); err != nil {
		return eris.Wrapf(err, "rabbitmq: declare queue %s", QueueName)
	}
	if err := ch.QueueBind(QueueName, RoutingKey, ExchangeName, false, nil); err != nil {
		return eris.Wrapf(err, "rabbitmq: bind queue %s", QueueName)
	}

	return nil
}

// Healthy reports whether the connection is still open.
func (r *RabbitMQ) Healthy() bool {
	return r != nil && r.Conn != nil && !r.Conn.IsClosed()
}

func (r *RabbitMQ) Close() error {
	if r.Ch != nil {
		_ = r.Ch.Close()
	}
	if r.Conn != nil {
		return r.Conn.Close()
	}
	return nil
}
