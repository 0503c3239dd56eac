package event

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type contextKey struct{}

// WithCorrelationID stores a request correlation id in the context so every
// event emitted while handling that request shares one chain.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, contextKey{}, correlationID)
}

// CorrelationIDFrom retrieves the correlation id carried by the context, or
// empty when the caller did not set one.
func CorrelationIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(contextKey{}).(string); ok {
		return id
	}
	return ""
}

// Event is a state-change notification emitted by the workflow service.
// Delivery is fire-and-forget: the audit sink records it, the engine never
// waits on or inspects the result.
type Event struct {
	ID            string                 `json:"id"`
	Type          Type                   `json:"type"`
	SubmissionID  int64                  `json:"submission_id"`
	ActorUserID   string                 `json:"actor_user_id"`
	Payload       map[string]interface{} `json:"payload"`
	Timestamp     time.Time              `json:"timestamp"`
	CorrelationID string                 `json:"correlation_id"`
}

// New creates a new domain event with auto-generated ID and timestamp
func New(eventType Type, submissionID int64, actorUserID string, payload map[string]interface{}) *Event {
	return &Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		SubmissionID:  submissionID,
		ActorUserID:   actorUserID,
		Payload:       payload,
		Timestamp:     time.Now(),
		CorrelationID: uuid.NewString(),
	}
}

// NewWithCorrelation creates an event linked to an existing correlation chain
func NewWithCorrelation(eventType Type, submissionID int64, actorUserID string, payload map[string]interface{}, correlationID string) *Event {
	evt := New(eventType, submissionID, actorUserID, payload)
	evt.CorrelationID = correlationID
	return evt
}

// WithPayload returns a copy of the event with an added payload entry
func (e *Event) WithPayload(key string, value interface{}) *Event {
	newPayload := make(map[string]interface{}, len(e.Payload)+1)
	for k, v := range e.Payload {
		newPayload[k] = v
	}
	newPayload[key] = value

	clone := *e
	clone.Payload = newPayload
	return &clone
}

// GetPayloadString retrieves a string value from the payload
func (e *Event) GetPayloadString(key string) string {
	if val, ok := e.Payload[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

// GetPayloadInt retrieves an int64 value from the payload
func (e *Event) GetPayloadInt(key string) int64 {
	if val, ok := e.Payload[key]; ok {
		switch v := val.(type) {
		case int64:
			return v
		case int:
			return int64(v)
		case float64:
			return int64(v)
		}
	}
	return 0
}
