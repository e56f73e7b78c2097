package rabbitmq

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"video-gallery/dto"
)

type Publisher struct {
	conn     *amqp.Connection
	topology Topology

	mu sync.Mutex
	ch *amqp.Channel
}

func NewPublisher(ctx context.Context, conn *amqp.Connection, topology Topology) (*Publisher, error) {
	p := &Publisher{conn: conn, topology: topology}
	if _, err := p.channel(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// channel returns the shared channel, reopening it after the broker closed it.
// Callers hold p.mu.
func (p *Publisher) channel(ctx context.Context) (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return nil, err
	}
	if err := p.topology.declare(ctx, ch); err != nil {
		_ = ch.Close()
		return nil, err
	}
	p.ch = ch
	return ch, nil
}

func (p *Publisher) Publish(ctx context.Context, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel(ctx)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(ctx, p.topology.Exchange, p.topology.RoutingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Body:         payload,
	})
}

func (p *Publisher) PublishOrphan(ctx context.Context, msg dto.OrphanedAssetMessage) error {
	return p.Publish(ctx, msg)
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || p.ch.IsClosed() {
		return nil
	}
	return p.ch.Close()
}
