package notify

import (
	"context"

	"github.com/mmdatafocus/plant_inventory/config"
	"github.com/mmdatafocus/plant_inventory/models"
)

// Open publishes notes to PUBSUB_TOPIC when one is configured and falls back to the log.
func Open(ctx context.Context, cfg config.AppConfig) models.NotificationSink {
	logger := config.GetLogger()
	if cfg.PubSubTopic == "" {
		return NewLogSink(logger)
	}
	client, err := config.GetClient(ctx)
	if err != nil {
		config.LogError(logger, "notify", "Open", "pubsub client", cfg.PubSubTopic, err)
		return NewLogSink(logger)
	}
	topic, err := config.CreateTopicIfNotExists(ctx, client, cfg.PubSubTopic)
	if err != nil {
		config.LogError(logger, "notify", "Open", "pubsub topic", cfg.PubSubTopic, err)
		return NewLogSink(logger)
	}
	return NewPubSubSink(topic)
}
