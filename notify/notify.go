package notify

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/mmdatafocus/plant_inventory/config"
	"github.com/mmdatafocus/plant_inventory/models"
	"github.com/mmdatafocus/plant_inventory/utils"
	"github.com/sirupsen/logrus"
)

// LogSink writes notes to the process log instead of delivering them.
type LogSink struct {
	logger *logrus.Logger
}

var _ models.NotificationSink = (*LogSink)(nil)

func NewLogSink(logger *logrus.Logger) *LogSink {
	if logger == nil {
		logger = config.GetLogger()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Notify(ctx context.Context, recipients []string, subject string, body string) error {
	fields := logrus.Fields{
		"recipients": recipients,
		"subject":    subject,
		"body":       body,
	}
	if cid, ok := utils.GetCorrelationIdFromContext(ctx); ok {
		fields["correlation_id"] = cid
	}
	s.logger.WithFields(fields).Warn("notification")
	return nil
}

// NoteMessage is the payload published for the mail relay.
type NoteMessage struct {
	Recipients    []string  `json:"recipients"`
	Subject       string    `json:"subject"`
	Body          string    `json:"body"`
	CorrelationId string    `json:"correlation_id,omitempty"`
	SentAt        time.Time `json:"sent_at"`
}

type publishFunc func(ctx context.Context, obj any, attrs map[string]string) (string, error)

// PubSubSink publishes each note to a topic consumed by the mail relay.
type PubSubSink struct {
	publish publishFunc
	now     func() time.Time
}

var _ models.NotificationSink = (*PubSubSink)(nil)

func NewPubSubSink(topic *pubsub.Topic) *PubSubSink {
	return &PubSubSink{
		publish: func(ctx context.Context, obj any, attrs map[string]string) (string, error) {
			return config.PublishJSON(ctx, topic, obj, attrs)
		},
		now: time.Now,
	}
}

func (s *PubSubSink) Notify(ctx context.Context, recipients []string, subject string, body string) error {
	if len(recipients) == 0 {
		return errors.New("no recipients configured")
	}
	msg := NoteMessage{
		Recipients: recipients,
		Subject:    subject,
		Body:       body,
		SentAt:     s.now().UTC(),
	}
	msg.CorrelationId, _ = utils.GetCorrelationIdFromContext(ctx)
	_, err := s.publish(ctx, msg, map[string]string{"type": "lead_hand_note"})
	return err
}
