package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
)

// EventPublisher defines the interface for publishing progress events
type EventPublisher interface {
	PublishProgressEvent(ctx context.Context, event *ProgressEvent) error
	Close() error
}

// KafkaEventPublisher implements EventPublisher using Watermill with Kafka
type KafkaEventPublisher struct {
	publisher message.Publisher
	logger    *slog.Logger
	topicName string
}

// PublisherConfig holds configuration for the event publisher
type PublisherConfig struct {
	KafkaBrokers []string
	TopicName    string
	Logger       *slog.Logger
}

// NewKafkaEventPublisher creates a new Kafka-based event publisher using Watermill
func NewKafkaEventPublisher(config PublisherConfig) (*KafkaEventPublisher, error) {
	logger := watermill.NewSlogLogger(config.Logger)

	publisherConfig := kafka.PublisherConfig{
		Brokers:   config.KafkaBrokers,
		Marshaler: kafka.DefaultMarshaler{},
	}

	publisher, err := kafka.NewPublisher(publisherConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka publisher: %w", err)
	}

	return &KafkaEventPublisher{
		publisher: publisher,
		logger:    config.Logger,
		topicName: config.TopicName,
	}, nil
}

// PublishProgressEvent publishes a progress event to Kafka
func (p *KafkaEventPublisher) PublishProgressEvent(ctx context.Context, event *ProgressEvent) error {
	if event.ID == "" {
		event.ID = watermill.NewUUID()
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal progress event: %w", err)
	}

	msg := message.NewMessage(event.ID, eventBytes)
	msg.Metadata.Set("event_type", string(event.Type))
	msg.Metadata.Set("source", event.Source)
	msg.Metadata.Set("user_id", event.UserID)
	msg.Metadata.Set("timestamp", event.Timestamp.Format("2006-01-02T15:04:05Z07:00"))

	if err := p.publisher.Publish(p.topicName, msg); err != nil {
		p.logger.Error("Failed to publish progress event",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
		return fmt.Errorf("failed to publish progress event: %w", err)
	}

	p.logger.Info("Published progress event",
		"event_id", event.ID,
		"event_type", event.Type,
		"topic", p.topicName)

	return nil
}

// Close closes the publisher and releases resources
func (p *KafkaEventPublisher) Close() error {
	return p.publisher.Close()
}

// NoopEventPublisher drops events after logging them. It takes Kafka's
// place when the broker is unreachable so progress mutations keep
// working; it holds no state and never fails.
type NoopEventPublisher struct {
	logger *slog.Logger
}

// NewNoopEventPublisher creates a log-only event publisher
func NewNoopEventPublisher(logger *slog.Logger) *NoopEventPublisher {
	return &NoopEventPublisher{logger: logger}
}

// PublishProgressEvent logs the event and discards it
func (p *NoopEventPublisher) PublishProgressEvent(ctx context.Context, event *ProgressEvent) error {
	p.logger.Info("Event publishing disabled, dropping progress event",
		"event_type", event.Type,
		"user_id", event.UserID,
		"exam_id", event.ExamID)
	return nil
}

// Close is a no-op
func (p *NoopEventPublisher) Close() error {
	return nil
}

// MockEventPublisher is a mock implementation for testing
type MockEventPublisher struct {
	Events []ProgressEvent
	Logger *slog.Logger
}

// NewMockEventPublisher creates a new mock event publisher
func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{
		Events: make([]ProgressEvent, 0),
		Logger: logger,
	}
}

// PublishProgressEvent stores the event in memory (for testing)
func (m *MockEventPublisher) PublishProgressEvent(ctx context.Context, event *ProgressEvent) error {
	m.Events = append(m.Events, *event)
	m.Logger.Info("Mock: Published progress event",
		"event_id", event.ID,
		"event_type", event.Type)
	return nil
}

// Close is a no-op for the mock publisher
func (m *MockEventPublisher) Close() error {
	return nil
}

// GetPublishedEvents returns all published events (for testing)
func (m *MockEventPublisher) GetPublishedEvents() []ProgressEvent {
	return m.Events
}

// ClearEvents clears all published events (for testing)
func (m *MockEventPublisher) ClearEvents() {
	m.Events = make([]ProgressEvent, 0)
}
