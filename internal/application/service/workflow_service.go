package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jcabrera/civil-registry/internal/application/dispatcher"
	"github.com/jcabrera/civil-registry/internal/application/port"
	appwf "github.com/jcabrera/civil-registry/internal/application/workflow"
	"github.com/jcabrera/civil-registry/internal/domain/entity"
	"github.com/jcabrera/civil-registry/internal/domain/event"
	"github.com/jcabrera/civil-registry/internal/domain/fee"
	"github.com/jcabrera/civil-registry/internal/domain/payment"
	domainwf "github.com/jcabrera/civil-registry/internal/domain/workflow"
)

var (
	// ErrAlreadyPaid is returned when payment proof is submitted while an
	// unresolved proof is already on record
	ErrAlreadyPaid = errors.New("payment proof already submitted")

	// ErrMissingRemarks is returned when a return/reject action carries no remarks
	ErrMissingRemarks = errors.New("remarks are required for this action")

	// ErrMissingProof is returned when a payment action carries no proof
	ErrMissingProof = errors.New("payment proof is required")

	// ErrMissingDocuments is returned at intake when no requirement documents
	// are attached
	ErrMissingDocuments = errors.New("required documents are missing")

	// ErrInvalidKind is returned for an unknown submission kind
	ErrInvalidKind = errors.New("invalid submission kind")
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// CreateInput is the intake payload for a new submission
type CreateInput struct {
	Kind        entity.Kind
	SubjectData string
	Options     entity.Options
	Documents   []entity.Document
}

// PerformPayload carries the action-specific data for Perform
type PerformPayload struct {
	// Remarks is required for RETURN, REJECT and REJECT_PAYMENT
	Remarks string

	// Proof is required for SUBMIT_PAYMENT
	Proof *payment.Proof

	// Options and SubjectData optionally replace the originals on RESUBMIT;
	// changed options cause the fee to be recomputed
	Options     *entity.Options
	SubjectData string
}

// WorkflowService is the single entry point request handlers use to move a
// submission through its lifecycle. Handlers must never mutate submission
// fields directly.
type WorkflowService interface {
	// Create performs intake: computes the fee and stores the submission in
	// PENDING_VERIFICATION
	Create(ctx context.Context, actor entity.Actor, in CreateInput) (*entity.Submission, error)

	// Perform applies one workflow action atomically and returns the updated
	// submission. A failed call leaves the stored record untouched.
	Perform(ctx context.Context, kind entity.Kind, id int64, trigger domainwf.Trigger, actor entity.Actor, payload PerformPayload) (*entity.Submission, error)

	// Get returns a submission visible to the actor (owner or staff)
	Get(ctx context.Context, actor entity.Actor, id int64) (*entity.Submission, error)

	// List returns the actor's own submissions, or any by status for staff
	List(ctx context.Context, actor entity.Actor, status domainwf.State, limit, offset int) ([]*entity.Submission, error)

	// History returns the audit trail of a submission visible to the actor
	History(ctx context.Context, actor entity.Actor, id int64) ([]*entity.StatusHistory, error)
}

type workflowServiceImpl struct {
	submissions port.SubmissionRepository
	history     port.HistoryRepository
	txManager   port.TransactionManager
	dispatcher  dispatcher.Dispatcher
	logger      Logger

	now         func() time.Time
	newOrderRef func(now time.Time, kindPrefix string) string
}

// ServiceOption configures the workflow service
type ServiceOption func(*workflowServiceImpl)

// WithClock overrides the time source
func WithClock(now func() time.Time) ServiceOption {
	return func(s *workflowServiceImpl) {
		s.now = now
	}
}

// WithOrderReferenceGenerator overrides order-of-payment reference generation
func WithOrderReferenceGenerator(gen func(now time.Time, kindPrefix string) string) ServiceOption {
	return func(s *workflowServiceImpl) {
		s.newOrderRef = gen
	}
}

// NewWorkflowService creates the workflow orchestrator
func NewWorkflowService(
	submissions port.SubmissionRepository,
	history port.HistoryRepository,
	txManager port.TransactionManager,
	disp dispatcher.Dispatcher,
	logger Logger,
	opts ...ServiceOption,
) WorkflowService {
	s := &workflowServiceImpl{
		submissions: submissions,
		history:     history,
		txManager:   txManager,
		dispatcher:  disp,
		logger:      logger,
		now:         time.Now,
		newOrderRef: payment.NewOrderReference,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Create performs intake of a new submission
func (s *workflowServiceImpl) Create(ctx context.Context, actor entity.Actor, in CreateInput) (*entity.Submission, error) {
	if !in.Kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, in.Kind)
	}
	if actor.Role != entity.RoleUser {
		return nil, fmt.Errorf("%w: only citizens may file submissions", domainwf.ErrPermissionDenied)
	}
	if len(in.Documents) == 0 {
		return nil, ErrMissingDocuments
	}

	amount, err := fee.Compute(in.Kind, in.Options)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sub := &entity.Submission{
		Kind:        in.Kind,
		OwnerUserID: actor.UserID,
		Status:      domainwf.StatePendingVerification,
		SubjectData: in.SubjectData,
		Options:     in.Options,
		FeeCentavos: amount,
		Documents:   in.Documents,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.submissions.Create(txCtx, sub); err != nil {
			return fmt.Errorf("create submission: %w", err)
		}

		h := &entity.StatusHistory{
			SubmissionID:   sub.ID,
			ActorUserID:    actor.UserID,
			PreviousStatus: "",
			NewStatus:      sub.Status.String(),
			Action:         "CREATE",
			Timestamp:      now,
		}
		if err := s.history.Create(txCtx, h); err != nil {
			return fmt.Errorf("create history: %w", err)
		}

		return nil
	})
	if err != nil {
		s.logger.Error("Failed to create submission", "error", err, "kind", in.Kind)
		return nil, err
	}

	s.emit(ctx, s.newEvent(ctx, event.TypeSubmissionCreated, sub.ID, actor.UserID).
		WithPayload("kind", sub.Kind.String()).
		WithPayload("fee_centavos", sub.FeeCentavos))
	s.logger.Info("Submission created",
		"id", sub.ID,
		"kind", sub.Kind,
		"owner_user_id", sub.OwnerUserID,
		"fee_centavos", sub.FeeCentavos,
	)
	return sub, nil
}

// Perform applies one workflow action atomically
func (s *workflowServiceImpl) Perform(ctx context.Context, kind entity.Kind, id int64, trigger domainwf.Trigger, actor entity.Actor, payload PerformPayload) (*entity.Submission, error) {
	sub, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// An id addressed under the wrong kind does not exist from the caller's
	// point of view
	if sub.Kind != kind {
		return nil, fmt.Errorf("%w: no %s submission with id %d", port.ErrNotFound, kind, id)
	}

	// A second proof without an intervening rejection is a double payment,
	// reported as such rather than as a generic transition error
	if trigger == domainwf.TriggerSubmitPayment && sub.Proof != nil {
		return nil, fmt.Errorf("%w: submission %d", ErrAlreadyPaid, id)
	}

	fromStatus := sub.Status
	machine := appwf.NewSubmissionMachine(fromStatus, actor, sub.OwnerUserID)
	if err := machine.Fire(ctx, trigger); err != nil {
		return nil, err
	}

	// Mutate a copy so a failed persist leaves the loaded record intact
	next := *sub
	next.Status = machine.State()
	if err := s.applyEffects(&next, trigger, actor, payload); err != nil {
		return nil, err
	}
	// Past approval a submission always carries its order of payment
	if next.Status.RequiresOrderOfPayment() && next.OrderOfPaymentRef == "" {
		return nil, fmt.Errorf("submission %d reached %s without an order of payment", next.ID, next.Status)
	}
	next.UpdatedAt = s.now()

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.submissions.UpdateFrom(txCtx, &next, fromStatus); err != nil {
			return err
		}

		h := &entity.StatusHistory{
			SubmissionID:   next.ID,
			ActorUserID:    actor.UserID,
			PreviousStatus: fromStatus.String(),
			NewStatus:      next.Status.String(),
			Action:         trigger.String(),
			Remarks:        payload.Remarks,
			Timestamp:      next.UpdatedAt,
		}
		if err := s.history.Create(txCtx, h); err != nil {
			return fmt.Errorf("create history: %w", err)
		}

		return nil
	})
	if err != nil {
		s.logger.Error("Failed to apply workflow action",
			"error", err,
			"id", id,
			"trigger", trigger,
			"from_status", fromStatus,
		)
		return nil, err
	}

	s.emit(ctx, s.newEvent(ctx, eventTypeFor(trigger), next.ID, actor.UserID).
		WithPayload("from_status", fromStatus.String()).
		WithPayload("to_status", next.Status.String()))
	s.logger.Info("Workflow action applied",
		"id", next.ID,
		"kind", next.Kind,
		"trigger", trigger,
		"from_status", fromStatus,
		"to_status", next.Status,
	)
	return &next, nil
}

// applyEffects performs the trigger-specific mutations on the copy
func (s *workflowServiceImpl) applyEffects(sub *entity.Submission, trigger domainwf.Trigger, actor entity.Actor, payload PerformPayload) error {
	switch trigger {
	case domainwf.TriggerApprove:
		// The reference is generated exactly once per submission
		if sub.OrderOfPaymentRef == "" {
			sub.OrderOfPaymentRef = s.newOrderRef(s.now(), sub.Kind.Prefix())
		}
		s.stamp(sub, actor)

	case domainwf.TriggerReturn, domainwf.TriggerReject:
		if payload.Remarks == "" {
			return ErrMissingRemarks
		}
		sub.Remarks = payload.Remarks
		s.stamp(sub, actor)

	case domainwf.TriggerSubmitPayment:
		if payload.Proof == nil {
			return ErrMissingProof
		}
		sub.Proof = payload.Proof

	case domainwf.TriggerConfirmPayment:
		if sub.Proof == nil {
			return ErrMissingProof
		}
		s.stamp(sub, actor)

	case domainwf.TriggerRejectPayment:
		if payload.Remarks == "" {
			return ErrMissingRemarks
		}
		sub.Proof = nil
		sub.Remarks = payload.Remarks
		s.stamp(sub, actor)

	case domainwf.TriggerComplete:
		s.stamp(sub, actor)

	case domainwf.TriggerResubmit:
		if payload.Options != nil && *payload.Options != sub.Options {
			amount, err := fee.Compute(sub.Kind, *payload.Options)
			if err != nil {
				return err
			}
			sub.Options = *payload.Options
			sub.FeeCentavos = amount
		}
		if payload.SubjectData != "" {
			sub.SubjectData = payload.SubjectData
		}
		sub.Remarks = ""
	}

	return nil
}

// stamp records staff accountability on a transition
func (s *workflowServiceImpl) stamp(sub *entity.Submission, actor entity.Actor) {
	now := s.now()
	sub.ProcessedBy = actor.UserID
	sub.ProcessedAt = &now
}

// Get returns a submission if the actor owns it or is staff
func (s *workflowServiceImpl) Get(ctx context.Context, actor entity.Actor, id int64) (*entity.Submission, error) {
	sub, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Role.IsStaff() && !actor.Owns(sub) {
		return nil, fmt.Errorf("%w: submission %d belongs to another citizen", domainwf.ErrPermissionDenied, id)
	}
	return sub, nil
}

// List returns submissions visible to the actor
func (s *workflowServiceImpl) List(ctx context.Context, actor entity.Actor, status domainwf.State, limit, offset int) ([]*entity.Submission, error) {
	if actor.Role.IsStaff() {
		if status != "" {
			return s.submissions.ListByStatus(ctx, status, limit, offset)
		}
		return s.submissions.ListByStatus(ctx, domainwf.StatePendingVerification, limit, offset)
	}
	return s.submissions.ListByOwner(ctx, actor.UserID, limit, offset)
}

// History returns the audit trail if the actor owns the submission or is staff
func (s *workflowServiceImpl) History(ctx context.Context, actor entity.Actor, id int64) ([]*entity.StatusHistory, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.history.ListBySubmission(ctx, id)
}

// newEvent builds an event chained to the request's correlation id when the
// transport carried one
func (s *workflowServiceImpl) newEvent(ctx context.Context, t event.Type, submissionID int64, actorUserID string) *event.Event {
	if cid := event.CorrelationIDFrom(ctx); cid != "" {
		return event.NewWithCorrelation(t, submissionID, actorUserID, nil, cid)
	}
	return event.New(t, submissionID, actorUserID, nil)
}

// emit dispatches a state-change event without waiting on the sink
func (s *workflowServiceImpl) emit(ctx context.Context, evt *event.Event) {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.DispatchAsync(ctx, evt)
}

// eventTypeFor maps a trigger to the event type emitted after it succeeds
func eventTypeFor(trigger domainwf.Trigger) event.Type {
	switch trigger {
	case domainwf.TriggerApprove:
		return event.TypeSubmissionApproved
	case domainwf.TriggerReturn:
		return event.TypeSubmissionReturned
	case domainwf.TriggerReject:
		return event.TypeSubmissionRejected
	case domainwf.TriggerSubmitPayment:
		return event.TypePaymentSubmitted
	case domainwf.TriggerConfirmPayment:
		return event.TypePaymentConfirmed
	case domainwf.TriggerRejectPayment:
		return event.TypePaymentRejected
	case domainwf.TriggerComplete:
		return event.TypeSubmissionCompleted
	case domainwf.TriggerResubmit:
		return event.TypeSubmissionResubmitted
	default:
		return event.Type("submission.unknown")
	}
}
