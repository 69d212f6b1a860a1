package rabbitmq

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// ErrMalformedMessage marks deliveries that can never be processed. They are
// dropped instead of requeued.
var ErrMalformedMessage = errors.New("malformed message")

// HandlerFunc processes one delivery body. Returning an error wrapping
// ErrMalformedMessage drops the message; any other error requeues it.
type HandlerFunc func(ctx context.Context, routingKey string, body []byte) error

type ConsumerConfig struct {
	Exchange   string
	Queue      string
	BindingKey string
	Tag        string
}

type Consumer struct {
	channel *amqp.Channel
	cfg     ConsumerConfig
}

// NewConsumer declares the exchange, a durable queue and its binding, and
// limits the channel to one unacknowledged message at a time.
func NewConsumer(ch *amqp.Channel, cfg ConsumerConfig) (*Consumer, error) {
	if err := ch.Qos(1, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}
	if err := DeclareExchange(ch, cfg.Exchange); err != nil {
		return nil, err
	}
	q, err := ch.QueueDeclare(
		cfg.Queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue %s: %w", cfg.Queue, err)
	}
	if err := ch.QueueBind(q.Name, cfg.BindingKey, cfg.Exchange, false, nil); err != nil {
		return nil, fmt.Errorf("failed to bind queue %s: %w", q.Name, err)
	}
	return &Consumer{channel: ch, cfg: cfg}, nil
}

// Run consumes until ctx is cancelled or the channel closes. A closed channel
// is returned as an error so the process can be restarted.
func (c *Consumer) Run(ctx context.Context, handle HandlerFunc) error {
	msgs, err := c.channel.Consume(
		c.cfg.Queue,
		c.cfg.Tag,
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}
	notifyClose := c.channel.NotifyClose(make(chan *amqp.Error, 1))

	log.Info().Str("queue", c.cfg.Queue).Str("binding", c.cfg.BindingKey).Msg("consumer started")
	for {
		select {
		case <-ctx.Done():
			if err := c.channel.Cancel(c.cfg.Tag, false); err != nil {
				log.Warn().Err(err).Msg("failed to cancel consumer")
			}
			return nil
		case amqpErr := <-notifyClose:
			if amqpErr != nil {
				return fmt.Errorf("channel closed: %w", amqpErr)
			}
			return errors.New("channel closed")
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			c.dispatch(ctx, d, handle)
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, d amqp.Delivery, handle HandlerFunc) {
	err := handle(ctx, d.RoutingKey, d.Body)
	if err == nil {
		if err := d.Ack(false); err != nil {
			log.Error().Err(err).Msg("failed to ack message")
		}
		return
	}

	requeue := !errors.Is(err, ErrMalformedMessage)
	log.Error().Err(err).
		Str("routing_key", d.RoutingKey).
		Bool("requeue", requeue).
		Msg("failed to process message")
	if err := d.Nack(false, requeue); err != nil {
		log.Error().Err(err).Msg("failed to nack message")
	}
}
