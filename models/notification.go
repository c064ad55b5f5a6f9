package models

import "context"

const leadHandNoteSubject = "Note added by lead hand"

// NotificationSink delivers operator notes to people (email relay, topic, log).
type NotificationSink interface {
	Notify(ctx context.Context, recipients []string, subject string, body string) error
}
