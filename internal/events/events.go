// Package events публикует события о записанных транзакциях в AMQP.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/ivanoskov/walriust/internal/model"
)

// RoutingKeyTransactionRecorded - ключ маршрутизации события о новой транзакции
const RoutingKeyTransactionRecorded = "transaction.recorded"

// TransactionRecorded - тело события
type TransactionRecorded struct {
	Type        string            `json:"type"`
	Transaction model.Transaction `json:"transaction"`
	RecordedAt  time.Time         `json:"recorded_at"`
}

// Publisher отправляет события о транзакциях
type Publisher interface {
	PublishTransactionRecorded(ctx context.Context, transaction model.Transaction) error
	Close() error
}

// NoopPublisher ничего не отправляет. Используется, когда AMQP не настроен.
type NoopPublisher struct{}

func (NoopPublisher) PublishTransactionRecorded(context.Context, model.Transaction) error { return nil }
func (NoopPublisher) Close() error { return nil }

// NewPublisher возвращает AMQP-издателя или NoopPublisher при пустом url
func NewPublisher(url, exchange string) (Publisher, error) {
	if url == "" {
		return NoopPublisher{}, nil
	}
	return NewAMQPPublisher(url, exchange)
}

type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
}

func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &AMQPPublisher{conn: conn, channel: channel, exchange: exchange}, nil
}

func (p *AMQPPublisher) PublishTransactionRecorded(ctx context.Context, transaction model.Transaction) error {
	msg, err := NewTransactionRecordedMessage(transaction, time.Now())
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		RoutingKeyTransactionRecorded,
		false, // mandatory
		false, // immediate
		msg,
	)
	if err != nil {
		return fmt.Errorf("publish transaction recorded: %w", err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	var firstErr error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			firstErr = err
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// NewTransactionRecordedMessage собирает AMQP-сообщение для транзакции
func NewTransactionRecordedMessage(transaction model.Transaction, now time.Time) (amqp091.Publishing, error) {
	body, err := json.Marshal(TransactionRecorded{
		Type:        RoutingKeyTransactionRecorded,
		Transaction: transaction,
		RecordedAt:  now.UTC(),
	})
	if err != nil {
		return amqp091.Publishing{}, fmt.Errorf("marshal event: %w", err)
	}

	return amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    transaction.ID,
		Timestamp:    now.UTC(),
		Type:         RoutingKeyTransactionRecorded,
		Body:         body,
	}, nil
}
