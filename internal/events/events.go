package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types published by the planner.
const (
	TypeBlockCompleted   = "block.completed"
	TypeBlockUncompleted = "block.uncompleted"
	TypeScheduleReplaced = "schedule.replaced"
)

// Event is a domain event with a JSON payload.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	// Payload contains the event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// CompletionPayload is the payload of block completion events.
type CompletionPayload struct {
	UserID      uuid.UUID `json:"user_id"`
	SubjectID   uuid.UUID `json:"subject_id"`
	BlockID     uuid.UUID `json:"block_id"`
	XPDelta     int       `json:"xp_delta"`
	SubjectXP   int       `json:"subject_xp"`
	GlobalXP    int       `json:"global_xp"`
	GlobalLevel int       `json:"global_level"`
	LeveledUp   bool      `json:"leveled_up"`
}

// SchedulePayload is the payload of TypeScheduleReplaced.
type SchedulePayload struct {
	UserID     uuid.UUID `json:"user_id"`
	Deleted    int64     `json:"deleted"`
	Inserted   int       `json:"inserted"`
	FirstDate  time.Time `json:"first_date"`
	HorizonEnd time.Time `json:"horizon_end"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates an Event with a fresh ID and the payload encoded as JSON.
func NewEvent(eventType string, payload interface{}) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// EventHandler defines the interface for components that process events.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *Event) error
}

// EventEmitter defines the interface for components that publish events.
type EventEmitter interface {
	EmitEvent(ctx context.Context, event *Event) error
}

// NopEmitter discards every event.
type NopEmitter struct{}

// EmitEvent implements EventEmitter.
func (NopEmitter) EmitEvent(context.Context, *Event) error { return nil }
