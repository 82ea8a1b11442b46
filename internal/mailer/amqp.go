package mailer

import (
	"encoding/json"

	"github.com/streadway/amqp"
)

// AMQP hands rendered emails to a durable queue for the relay worker to
// deliver. A successful publish counts as handoff to the transport.
type AMQP struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

func DialAMQP(url, queue string) (*AMQP, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &AMQP{conn: conn, ch: ch, queue: queue}, nil
}

func (t *AMQP) Send(msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return t.ch.Publish(
		"",
		t.queue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

func (t *AMQP) Close() error {
	if err := t.ch.Close(); err != nil {
		t.conn.Close()
		return err
	}
	return t.conn.Close()
}

var _ Transport = (*AMQP)(nil)
