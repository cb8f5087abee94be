package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/zeromicro/go-zero/core/logx"
)

// AMQPConfig configures the RabbitMQ publisher.
type AMQPConfig struct {
	URL      string `json:",optional"`
	Exchange string `json:",default=careerpilot.events"`
}

// AMQPPublisher publishes persistent JSON messages to a durable topic
// exchange and redials after the broker closes the connection.
type AMQPPublisher struct {
	url      string
	exchange string

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	closed  bool
}

// NewAMQPPublisher dials the broker and declares the exchange.
func NewAMQPPublisher(cfg AMQPConfig) (*AMQPPublisher, error) {
	if cfg.URL == "" {
		return nil, errors.New("amqp url is required")
	}
	exchange := cfg.Exchange
	if exchange == "" {
		exchange = "careerpilot.events"
	}
	p := &AMQPPublisher{url: cfg.URL, exchange: exchange}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

// connect must be called with mu held or before p is shared.
func (p *AMQPPublisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(p.exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		conn.Close()
		return fmt.Errorf("declare exchange %s: %w", p.exchange, err)
	}
	p.conn = conn
	p.channel = ch
	go p.monitor(conn)
	return nil
}

// monitor reconnects with exponential backoff when the broker drops conn.
func (p *AMQPPublisher) monitor(conn *amqp.Connection) {
	reason, ok := <-conn.NotifyClose(make(chan *amqp.Error, 1))
	if !ok {
		return
	}
	logx.Infow("amqp connection closed", logx.Field("reason", fmt.Sprint(reason)))

	for attempt := 0; attempt < 6; attempt++ {
		time.Sleep(time.Duration(1<<attempt) * time.Second)

		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return
		}
		err := p.connect()
		p.mu.Unlock()
		if err == nil {
			logx.Info("amqp reconnected")
			return
		}
		logx.Errorw("amqp reconnect failed", logx.Field("attempt", attempt+1), logx.Field("error", err.Error()))
	}
}

// Publish sends payload as a persistent JSON message.
func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", routingKey, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return errors.New("publisher closed")
	}
	err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

// Close shuts down the channel and connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
