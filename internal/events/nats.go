// Package events publishes domain events to NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"users-api/internal/models"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Publisher is the part of *nats.Conn the publisher needs
type Publisher interface {
	PublishMsg(msg *nats.Msg) error
}

// NatsPublisher publishes every new like on a NATS subject
type NatsPublisher struct {
	nc      Publisher
	subject string
}

// NewNatsPublisher creates a publisher writing to subject
func NewNatsPublisher(nc Publisher, subject string) *NatsPublisher {
	return &NatsPublisher{nc: nc, subject: subject}
}

// Connect dials the NATS server at url
func Connect(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("users-api"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return nc, nil
}

// NotifyLike publishes like as JSON, carrying the trace context of ctx in
// the message headers
func (p *NatsPublisher) NotifyLike(ctx context.Context, like *models.Like) error {
	data, err := json.Marshal(like)
	if err != nil {
		return fmt.Errorf("failed to marshal like: %w", err)
	}

	msg := &nats.Msg{
		Subject: p.subject,
		Data:    data,
		Header:  nats.Header{},
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(http.Header(msg.Header)))

	if err := p.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish like: %w", err)
	}

	log.Debug().
		Str("subject", p.subject).
		Str("liked_user_id", like.LikedUserID).
		Msg("Like event published")
	return nil
}
