package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/oakline/storefront/pkg/kafka"
	"github.com/oakline/storefront/pkg/logger"

	"github.com/oakline/storefront/internal/domain"
)

// Kafka topic constants for address domain events.
const (
	TopicAddressCreated        = "storefront.address.created"
	TopicAddressDefaultChanged = "storefront.address.default_changed"
)

// Aggregate type constant.
const AggregateTypeAddress = "address"

// Source identifier for events originating from the storefront service.
const SourceStorefront = "storefront"

// AddressCreatedData is the payload for an address.created event.
type AddressCreatedData struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	City    string `json:"city,omitempty"`
	Default bool   `json:"default"`
}

// AddressDefaultChangedData is the payload for an address.default_changed
// event, emitted once per submission that promoted a new default.
type AddressDefaultChangedData struct {
	Email       string   `json:"email"`
	NewDefault  string   `json:"new_default"`
	DemotedIDs  []string `json:"demoted_ids"`
	FailedCount int      `json:"failed_count"`
}

// Producer publishes address domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the storefront service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishAddressCreated publishes an address.created event.
func (p *Producer) PublishAddressCreated(ctx context.Context, address *domain.Address) error {
	data := AddressCreatedData{
		ID:      address.ID,
		Email:   address.Email,
		City:    address.City,
		Default: address.Default,
	}

	event, err := pkgkafka.NewEvent(TopicAddressCreated, address.ID, AggregateTypeAddress, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create address.created event: %w", err)
	}
	event.WithCorrelationID(logger.CorrelationIDFromContext(ctx))

	if err := p.kafka.Publish(ctx, TopicAddressCreated, event); err != nil {
		return fmt.Errorf("publish address.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published address.created event",
		slog.String("address_id", address.ID),
		slog.String("email", address.Email),
	)

	return nil
}

// PublishAddressDefaultChanged publishes an address.default_changed event.
func (p *Producer) PublishAddressDefaultChanged(ctx context.Context, email, newDefaultID string, demotedIDs []string, failedCount int) error {
	data := AddressDefaultChangedData{
		Email:       email,
		NewDefault:  newDefaultID,
		DemotedIDs:  demotedIDs,
		FailedCount: failedCount,
	}

	event, err := pkgkafka.NewEvent(TopicAddressDefaultChanged, newDefaultID, AggregateTypeAddress, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create address.default_changed event: %w", err)
	}
	event.WithCorrelationID(logger.CorrelationIDFromContext(ctx))

	if err := p.kafka.Publish(ctx, TopicAddressDefaultChanged, event); err != nil {
		return fmt.Errorf("publish address.default_changed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published address.default_changed event",
		slog.String("email", email),
		slog.String("new_default", newDefaultID),
	)

	return nil
}
