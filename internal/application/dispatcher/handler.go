package dispatcher

import (
	"context"

	"github.com/jcabrera/civil-registry/internal/domain/event"
)

// Handler processes submission events
type Handler func(ctx context.Context, evt *event.Event) error

// HandlerInfo contains handler metadata for debugging
type HandlerInfo struct {
	Name      string
	EventType event.Type
	Handler   Handler
}

// AllEventTypes lists every submission event type, for sinks that want the
// full stream (the audit log subscribes to all of them).
func AllEventTypes() []event.Type {
	return []event.Type{
		event.TypeSubmissionCreated,
		event.TypeSubmissionApproved,
		event.TypeSubmissionReturned,
		event.TypeSubmissionRejected,
		event.TypeSubmissionResubmitted,
		event.TypePaymentSubmitted,
		event.TypePaymentConfirmed,
		event.TypePaymentRejected,
		event.TypeSubmissionCompleted,
	}
}

// NewAuditLogHandler returns a sink that records every event through the
// given logger. Delivery failures never affect the originating transition.
func NewAuditLogHandler(logger Logger) Handler {
	return func(ctx context.Context, evt *event.Event) error {
		fields := []interface{}{
			"event_id", evt.ID,
			"event_type", evt.Type,
			"submission_id", evt.SubmissionID,
			"actor_user_id", evt.ActorUserID,
			"correlation_id", evt.CorrelationID,
		}
		if from := evt.GetPayloadString("from_status"); from != "" {
			fields = append(fields, "from_status", from, "to_status", evt.GetPayloadString("to_status"))
		}
		if amount := evt.GetPayloadInt("fee_centavos"); amount > 0 {
			fields = append(fields, "fee_centavos", amount)
		}
		logger.Info("Submission event", fields...)
		return nil
	}
}
