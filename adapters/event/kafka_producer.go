package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/foliolab/folio-api/internal/config"
)

const TopicProfileEvents = "profile.events"

const (
	ProfileEventTypeCreated     = "profile.created"
	ProfileEventTypeTransferred = "profile.transferred"
	ProfileEventTypePublished   = "profile.published"
	ProfileEventTypeUnpublished = "profile.unpublished"
	ProfileEventTypeDeleted     = "profile.deleted"
)

type ProfileEventPayload struct {
	EventType string     `json:"event_type"`
	ProfileID uuid.UUID  `json:"profile_id"`
	Username  string     `json:"username"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	Guest     bool       `json:"guest"`
}

type KafkaProducerClient struct {
	ProfileEventsWriter *kafka.Writer
}

func NewKafkaProducerClient(cfg config.Config) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	profileWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicProfileEvents,
		Balancer: &kafka.LeastBytes{},
	}

	return &KafkaProducerClient{
		ProfileEventsWriter: profileWriter,
	}, nil
}

func (c *KafkaProducerClient) PublishProfileEvent(ctx context.Context, payload ProfileEventPayload) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("cannot marshal profile event: %w", err)
	}

	return c.ProfileEventsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(payload.Username),
		Value: value,
	})
}

func (c *KafkaProducerClient) Close() {
	if c.ProfileEventsWriter != nil {
		c.ProfileEventsWriter.Close()
	}
}
