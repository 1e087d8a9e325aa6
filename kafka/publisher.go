package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/luckyfood/stockpilot/pkg/logger"
)

// Publisher wraps a synchronous Kafka producer for stock events.
type Publisher struct {
	producer sarama.SyncProducer
	brokers  []string
}

// NewPublisher creates a new Kafka publisher.
func NewPublisher(brokers []string) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.MaxMessageBytes = 1000000

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Msg("Kafka publisher initialized")

	return &Publisher{producer: producer, brokers: brokers}, nil
}

// PublishProductCreated publishes a product.created event.
func (p *Publisher) PublishProductCreated(ctx context.Context, event ProductCreatedEvent) error {
	event.EventType = EventTypeProductCreated
	event.EventID = newEventID(event.EventID)
	event.Timestamp = time.Now()

	key := fmt.Sprintf("%s/product/%s", event.OrgID, event.ProductID)
	return p.publish(ctx, TopicStockEvents, key, event.EventType, event.EventID, event,
		attribute.String("product.id", event.ProductID),
		attribute.String("org.id", event.OrgID),
	)
}

// PublishInventoryChanged publishes an inventory.changed or
// inventory.deleted event.
func (p *Publisher) PublishInventoryChanged(ctx context.Context, event InventoryChangedEvent) error {
	if event.EventType == "" {
		event.EventType = EventTypeInventoryChanged
	}
	event.EventID = newEventID(event.EventID)
	event.Timestamp = time.Now()

	key := fmt.Sprintf("%s/inventory/%s", event.OrgID, event.ItemID)
	return p.publish(ctx, TopicStockEvents, key, event.EventType, event.EventID, event,
		attribute.String("inventory.item_id", event.ItemID),
		attribute.Int("inventory.quantity", event.Quantity),
		attribute.String("org.id", event.OrgID),
	)
}

func (p *Publisher) publish(ctx context.Context, topic, key, eventType, eventID string, event any, attrs ...attribute.KeyValue) error {
	tracer := otel.Tracer("kafka-publisher")
	ctx, span := tracer.Start(ctx, "kafka.publish."+eventType,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(append(attrs,
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", topic),
			attribute.String("event.type", eventType),
			attribute.String("event.id", eventID),
		)...),
	)
	defer span.End()

	eventBytes, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal event")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// Propagate trace context through message headers
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := []sarama.RecordHeader{
		{Key: []byte("event_type"), Value: []byte(eventType)},
		{Key: []byte("event_id"), Value: []byte(eventID)},
	}
	for k, v := range carrier {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte(k),
			Value: []byte(v),
		})
	}

	msg := &sarama.ProducerMessage{
		Topic:   topic,
		Key:     sarama.StringEncoder(key),
		Value:   sarama.ByteEncoder(eventBytes),
		Headers: headers,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to send message")
		logger.Logger.Error().
			Err(err).
			Str("topic", topic).
			Str("event_type", eventType).
			Msg("Failed to publish event")
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	span.SetAttributes(
		attribute.Int("messaging.kafka.partition", int(partition)),
		attribute.Int64("messaging.kafka.offset", offset),
	)
	span.SetStatus(codes.Ok, "Event published")

	logger.Logger.Info().
		Str("event_id", eventID).
		Str("event_type", eventType).
		Str("topic", topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("Event published")

	return nil
}

// Close closes the Kafka producer.
func (p *Publisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

func newEventID(existing string) string {
	if existing != "" {
		return existing
	}
	return fmt.Sprintf("evt_%d", time.Now().UnixNano())
}
