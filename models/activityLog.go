package models

import (
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/mmdatafocus/plant_inventory/utils"
)

type FieldChange struct {
	From any `json:"from"`
	To   any `json:"to"`
}

// ActivityEntry is one audit record. Only Comment changes after creation.
type ActivityEntry struct {
	ID           string                 `json:"id"`
	Timestamp    time.Time              `json:"timestamp"`
	User         string                 `json:"user"`
	Action       string                 `json:"action"`
	ItemId       string                 `json:"itemId,omitempty"`
	FieldChanged string                 `json:"fieldChanged,omitempty"`
	Value        any                    `json:"value,omitempty"`
	OldValue     any                    `json:"oldValue,omitempty"`
	NewValue     any                    `json:"newValue,omitempty"`
	Changes      map[string]FieldChange `json:"changes,omitempty"`
	Details      string                 `json:"details,omitempty"`
	Comment      string                 `json:"comment"`
	ReferenceId  string                 `json:"referenceId,omitempty"`
	FormData     map[string]any         `json:"formData,omitempty"`
}

// NewActivity is the draft a ledger operation hands back for the log.
type NewActivity struct {
	User         string
	Action       string
	ItemId       string
	FieldChanged string
	Value        any
	OldValue     any
	NewValue     any
	Changes      map[string]FieldChange
	Details      string
	Comment      string
	ReferenceId  string
	FormData     map[string]any
}

type ActivityFilter struct {
	ItemId string     `form:"itemId" json:"itemId"`
	Start  *time.Time `form:"start" json:"start" time_format:"2006-01-02T15:04:05Z07:00"`
	End    *time.Time `form:"end" json:"end" time_format:"2006-01-02T15:04:05Z07:00"`
	Action string     `form:"action" json:"action"`
	User   string     `form:"user" json:"user"`
	Search string     `form:"search" json:"search"`
}

func (f ActivityFilter) matches(e ActivityEntry) bool {
	if f.ItemId != "" && e.ItemId != f.ItemId {
		return false
	}
	if f.Start != nil && e.Timestamp.Before(*f.Start) {
		return false
	}
	if f.End != nil && e.Timestamp.After(*f.End) {
		return false
	}
	if f.Action != "" && e.Action != f.Action {
		return false
	}
	if f.User != "" && e.User != f.User {
		return false
	}
	if f.Search != "" {
		if !utils.ContainsFold(e.Comment, f.Search) &&
			!utils.ContainsFold(e.FieldChanged, f.Search) &&
			!utils.ContainsFold(e.ItemId, f.Search) {
			return false
		}
	}
	return true
}

// ActivityLog keeps entries most-recent-first.
type ActivityLog struct {
	entries []ActivityEntry
	now     func() time.Time
}

func NewActivityLog(entries []ActivityEntry, now func() time.Time) *ActivityLog {
	if now == nil {
		now = time.Now
	}
	return &ActivityLog{entries: append([]ActivityEntry(nil), entries...), now: now}
}

func newActivityId() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (l *ActivityLog) Append(draft NewActivity) ActivityEntry {
	user := draft.User
	if user == "" {
		user = UserSystem
	}
	entry := ActivityEntry{
		ID:           newActivityId(),
		Timestamp:    l.now().UTC(),
		User:         user,
		Action:       draft.Action,
		ItemId:       draft.ItemId,
		FieldChanged: draft.FieldChanged,
		Value:        draft.Value,
		OldValue:     draft.OldValue,
		NewValue:     draft.NewValue,
		Changes:      draft.Changes,
		Details:      draft.Details,
		Comment:      draft.Comment,
		ReferenceId:  draft.ReferenceId,
		FormData:     draft.FormData,
	}
	l.entries = append([]ActivityEntry{entry}, l.entries...)
	return entry
}

// UpdateComment rewrites the comment of entry id. Returns false when id is unknown.
func (l *ActivityLog) UpdateComment(id string, comment string) (*ActivityEntry, bool) {
	for i := range l.entries {
		if l.entries[i].ID == id {
			l.entries[i].Comment = comment
			entry := l.entries[i].clone()
			return &entry, true
		}
	}
	return nil, false
}

// Query returns the entries matching every set filter, most recent first.
func (l *ActivityLog) Query(filter ActivityFilter) []ActivityEntry {
	results := make([]ActivityEntry, 0)
	for _, e := range l.entries {
		if filter.matches(e) {
			results = append(results, e.clone())
		}
	}
	return results
}

func (l *ActivityLog) Entries() []ActivityEntry {
	return cloneEntries(l.entries)
}

// clone copies the Changes and FormData maps so callers cannot rewrite a logged entry.
func (e ActivityEntry) clone() ActivityEntry {
	e.Changes = maps.Clone(e.Changes)
	e.FormData = maps.Clone(e.FormData)
	return e
}

func cloneEntries(entries []ActivityEntry) []ActivityEntry {
	if entries == nil {
		return nil
	}
	out := make([]ActivityEntry, len(entries))
	for i, e := range entries {
		out[i] = e.clone()
	}
	return out
}

// Recent returns up to n of the latest entries.
func (l *ActivityLog) Recent(n int) []ActivityEntry {
	if n < 0 {
		n = 0
	}
	if n > len(l.entries) {
		n = len(l.entries)
	}
	return cloneEntries(l.entries[:n])
}

func (l *ActivityLog) Len() int {
	return len(l.entries)
}
