package config

import (
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/adaptive-assessment/internal/events"
)

// EventConfig holds configuration for event publishing
type EventConfig struct {
	Enabled       bool   `env:"EVENTS_ENABLED" envDefault:"true"`
	Publisher     string `env:"EVENTS_PUBLISHER" envDefault:"kafka"` // kafka, gochannel or mock
	KafkaBrokers  string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	ResultsTopic  string `env:"RESULTS_TOPIC" envDefault:"assessment-results"`
	ProgressTopic string `env:"PROGRESS_TOPIC" envDefault:"assessment-progress"`
}

func loadEventConfig() EventConfig {
	return EventConfig{
		Enabled:       getEnvBool("EVENTS_ENABLED", true),
		Publisher:     getEnv("EVENTS_PUBLISHER", "kafka"),
		KafkaBrokers:  getEnv("KAFKA_BROKERS", "localhost:9092"),
		ResultsTopic:  getEnv("RESULTS_TOPIC", "assessment-results"),
		ProgressTopic: getEnv("PROGRESS_TOPIC", "assessment-progress"),
	}
}

// GetKafkaBrokers returns Kafka brokers as a slice
func (c *EventConfig) GetKafkaBrokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func (c *EventConfig) topics() events.Topics {
	return events.Topics{Results: c.ResultsTopic, Progress: c.ProgressTopic}
}

// CreateEventPublisher creates an event publisher based on configuration
func (c *EventConfig) CreateEventPublisher(logger *slog.Logger) (events.EventPublisher, error) {
	if !c.Enabled {
		logger.Info("Event publishing disabled, using mock publisher")
		return events.NewMockEventPublisher(logger), nil
	}

	switch c.Publisher {
	case "kafka":
		logger.Info("Creating Kafka event publisher",
			"brokers", c.KafkaBrokers,
			"results_topic", c.ResultsTopic,
			"progress_topic", c.ProgressTopic)

		return events.NewKafkaEventPublisher(events.PublisherConfig{
			KafkaBrokers: c.GetKafkaBrokers(),
			Topics:       c.topics(),
			Logger:       logger,
		})
	case "gochannel":
		logger.Info("Using in-process event publisher")
		return events.NewGoChannelEventPublisher(events.PublisherConfig{
			Topics: c.topics(),
			Logger: logger,
		}), nil
	case "mock":
		logger.Info("Using mock event publisher")
		return events.NewMockEventPublisher(logger), nil
	default:
		logger.Warn("Unknown event publisher type, falling back to mock", "publisher", c.Publisher)
		return events.NewMockEventPublisher(logger), nil
	}
}
