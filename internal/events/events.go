// Package events publishes task domain events.
//
// Every store mutation performed through the tracker produces an Event. The
// NATS publisher sends it as JSON to "<prefix>.<type>", for example
// "taskwave.tasks.completed". Consumers can subscribe to "taskwave.>" for the
// full stream.
package events

import (
	"context"
	"time"

	"github.com/fyrsmithlabs/taskwave/internal/logging"
	"github.com/fyrsmithlabs/taskwave/internal/task"
	"github.com/google/uuid"
)

// Type identifies the kind of event. It doubles as the subject suffix.
type Type string

const (
	TaskCreated   Type = "tasks.created"
	TaskUpdated   Type = "tasks.updated"
	TaskDeleted   Type = "tasks.deleted"
	TaskCompleted Type = "tasks.completed"
	GroupUnlocked Type = "groups.unlocked"
	StoreReset    Type = "store.reset"
)

// Event is the JSON payload published for every mutation.
type Event struct {
	ID        string     `json:"id"`
	Type      Type       `json:"type"`
	Task      *task.Task `json:"task,omitempty"`
	Group     int        `json:"group,omitempty"`
	Count     int        `json:"count,omitempty"`
	RequestID string     `json:"request_id,omitempty"`
	Time      time.Time  `json:"time"`
}

// New builds an event, taking the request id from ctx. t is copied.
func New(ctx context.Context, typ Type, t *task.Task) Event {
	ev := Event{
		ID:        uuid.NewString(),
		Type:      typ,
		RequestID: logging.RequestIDFromContext(ctx),
		Time:      time.Now().UTC(),
	}
	if t != nil {
		cp := *t
		ev.Task = &cp
		ev.Group = cp.Group
	}
	return ev
}

// Publisher sends events somewhere. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
