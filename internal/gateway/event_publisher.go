package gateway

import "context"

//go:generate mockgen -source=event_publisher.go -destination=mocks/event_publisher_mock.go -package=mocks

type EventPublisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body any) error
}
