package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/streadway/amqp"
)

const (
	sessionsQueue          = "sessions"
	deadSessionsQueue      = "sessions.dead"
	sessionUpdatesExchange = "session_updates"
)

// rabbitPublisher sends session status changes to the session_updates topic
// exchange, one channel per publish.
type rabbitPublisher struct {
	conn *amqp.Connection
}

func newRabbitPublisher(conn *amqp.Connection) (*rabbitPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, errors.Wrap(err, "error opening rabbitmq channel")
	}
	defer ch.Close()

	err = ch.ExchangeDeclare(
		sessionUpdatesExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, errors.Wrap(err, "error declaring session_updates exchange")
	}
	return &rabbitPublisher{conn: conn}, nil
}

func (p *rabbitPublisher) PublishSessionUpdate(sessionID uuid.UUID, update SessionUpdate) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(update)
	if err != nil {
		return err
	}

	return ch.Publish(
		sessionUpdatesExchange,
		sessionRoutingKey(sessionID),
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func sessionRoutingKey(sessionID uuid.UUID) string {
	return fmt.Sprintf("session.%s", sessionID)
}

func newSessionUpdate(sessionID uuid.UUID, status, message string) SessionUpdate {
	return SessionUpdate{
		SessionID: sessionID,
		Status:    status,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}
