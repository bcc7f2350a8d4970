package events

import "context"

// Event types emitted by the entry service after a successful write.
const (
	EntryCreated = "entry.created"
	EntryUpdated = "entry.updated"
	EntryDeleted = "entry.deleted"
)

// EntryEvent is the payload published for every entry lifecycle change.
type EntryEvent struct {
	Type      string `json:"type"`
	EntryID   string `json:"entryID"`
	AccountID string `json:"accountID"`
	Version   int64  `json:"version"`
}

// Publisher emits entry lifecycle events. Publishing is best-effort: failures
// are logged by the caller and never fail the request that produced them.
type Publisher interface {
	Publish(ctx context.Context, event EntryEvent) error
}

// NoopPublisher discards all events. Used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, EntryEvent) error { return nil }
