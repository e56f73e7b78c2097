package rabbitmq

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Topology names one work queue bound to an exchange, plus the dead-letter
// exchange and queue its rejected messages end up in.
type Topology struct {
	Exchange      string
	Kind          string
	Queue         string
	RoutingKey    string
	DLX           string
	DLQ           string
	DLQRoutingKey string
}

func CleanupTopology(exchange, kind string) Topology {
	if exchange == "" {
		exchange = "media_cleanup_exchange"
	}
	if kind == "" {
		kind = amqp.ExchangeDirect
	}
	return Topology{
		Exchange:      exchange,
		Kind:          kind,
		Queue:         "media_cleanup_queue",
		RoutingKey:    "media.cleanup.orphan",
		DLX:           exchange + "_dlx",
		DLQ:           "media_cleanup_queue_dlq",
		DLQRoutingKey: "dlq.media.cleanup.orphan",
	}
}

// declare is idempotent; both the publisher and the consumer run it so
// neither side depends on the other having started first.
func (t Topology) declare(ctx context.Context, ch *amqp.Channel) error {
	logger := zerolog.Ctx(ctx).With().Str("exchange", t.Exchange).Str("queue", t.Queue).Logger()

	if err := ch.ExchangeDeclare(t.Exchange, t.Kind, true, false, false, false, nil); err != nil {
		logger.Error().Err(err).Msg("failed to declare exchange")
		return err
	}

	if err := ch.ExchangeDeclare(t.DLX, t.Kind, true, false, false, false, nil); err != nil {
		logger.Error().Err(err).Str("dlx", t.DLX).Msg("failed to declare dlx")
		return err
	}

	dlq, err := ch.QueueDeclare(t.DLQ, true, false, false, false, nil)
	if err != nil {
		logger.Error().Err(err).Str("dlq", t.DLQ).Msg("failed to declare dlq")
		return err
	}

	if err := ch.QueueBind(dlq.Name, t.DLQRoutingKey, t.DLX, false, nil); err != nil {
		logger.Error().Err(err).Msg("failed to bind dlq")
		return err
	}

	args := amqp.Table{
		"x-dead-letter-exchange":    t.DLX,
		"x-dead-letter-routing-key": t.DLQRoutingKey,
	}
	q, err := ch.QueueDeclare(t.Queue, true, false, false, false, args)
	if err != nil {
		logger.Error().Err(err).Msg("failed to declare queue")
		return err
	}

	if err := ch.QueueBind(q.Name, t.RoutingKey, t.Exchange, false, nil); err != nil {
		logger.Error().Err(err).Msg("failed to bind queue")
		return err
	}
	return nil
}
