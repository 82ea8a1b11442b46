// The relay consumes rendered emails from the AMQP queue and delivers them
// over SMTP. It is the far end of the "amqp" mail driver; the server does
// not wait on it.
package main

import (
	"encoding/json"
	"log"

	"github.com/joho/godotenv"
	"github.com/streadway/amqp"

	"github.com/plumepress/newsletter-backend/internal/config"
	"github.com/plumepress/newsletter-backend/internal/mailer"
)

const maxRetries = 3

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on OS environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		log.Fatal("failed to connect to RabbitMQ:", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal("failed to open a channel:", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		cfg.AMQPQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		log.Fatal("failed to declare queue:", err)
	}

	msgs, err := ch.Consume(
		q.Name,
		"",
		false, // manual ack for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Fatal("failed to register consumer:", err)
	}

	smtpTransport := &mailer.SMTP{
		Addr:      cfg.SMTPAddr,
		FromName:  cfg.FromName,
		FromEmail: cfg.FromEmail,
	}

	log.Println("relay running, waiting for messages...")
	for d := range msgs {
		var msg mailer.Message
		if err := json.Unmarshal(d.Body, &msg); err != nil {
			log.Println("invalid message, dropping:", err)
			d.Ack(false)
			continue
		}

		if err := smtpTransport.Send(&msg); err != nil {
			log.Printf("delivery to %s failed: %v", msg.To, err)
			retries := retryCount(d.Headers)
			if retries < maxRetries {
				// Requeue with a bumped retry header; a plain Nack would
				// loop forever on a permanently bad address.
				republish(ch, q.Name, d.Body, retries+1)
			} else {
				log.Printf("giving up on %s after %d attempts", msg.To, maxRetries)
			}
			d.Ack(false)
			continue
		}

		log.Printf("delivered to %s: %s", msg.To, msg.Subject)
		d.Ack(false)
	}
}

func republish(ch *amqp.Channel, queue string, body []byte, retries int) {
	err := ch.Publish("", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Headers:      amqp.Table{"x-retry-count": int32(retries)},
		Body:         body,
	})
	if err != nil {
		log.Println("failed to requeue message:", err)
	}
}

func retryCount(headers amqp.Table) int {
	switch v := headers["x-retry-count"].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	default:
		return 0
	}
}
