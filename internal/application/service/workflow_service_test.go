package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcabrera/civil-registry/internal/application/dispatcher"
	"github.com/jcabrera/civil-registry/internal/application/port"
	"github.com/jcabrera/civil-registry/internal/domain/entity"
	"github.com/jcabrera/civil-registry/internal/domain/event"
	"github.com/jcabrera/civil-registry/internal/domain/payment"
	domainwf "github.com/jcabrera/civil-registry/internal/domain/workflow"
)

// Mock implementations with function fields, so each test overrides only
// the calls it cares about.

type mockSubmissionRepo struct {
	createFn       func(ctx context.Context, sub *entity.Submission) error
	getByIDFn      func(ctx context.Context, id int64) (*entity.Submission, error)
	listByOwnerFn  func(ctx context.Context, ownerUserID string, limit, offset int) ([]*entity.Submission, error)
	listByStatusFn func(ctx context.Context, status domainwf.State, limit, offset int) ([]*entity.Submission, error)
	updateFromFn   func(ctx context.Context, sub *entity.Submission, fromStatus domainwf.State) error
}

func (m *mockSubmissionRepo) Create(ctx context.Context, sub *entity.Submission) error {
	if m.createFn != nil {
		return m.createFn(ctx, sub)
	}
	sub.ID = 1
	return nil
}

func (m *mockSubmissionRepo) GetByID(ctx context.Context, id int64) (*entity.Submission, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, port.ErrNotFound
}

func (m *mockSubmissionRepo) ListByOwner(ctx context.Context, ownerUserID string, limit, offset int) ([]*entity.Submission, error) {
	if m.listByOwnerFn != nil {
		return m.listByOwnerFn(ctx, ownerUserID, limit, offset)
	}
	return nil, nil
}

func (m *mockSubmissionRepo) ListByStatus(ctx context.Context, status domainwf.State, limit, offset int) ([]*entity.Submission, error) {
	if m.listByStatusFn != nil {
		return m.listByStatusFn(ctx, status, limit, offset)
	}
	return nil, nil
}

func (m *mockSubmissionRepo) UpdateFrom(ctx context.Context, sub *entity.Submission, fromStatus domainwf.State) error {
	if m.updateFromFn != nil {
		return m.updateFromFn(ctx, sub, fromStatus)
	}
	return nil
}

type mockHistoryRepo struct {
	createFn           func(ctx context.Context, h *entity.StatusHistory) error
	listBySubmissionFn func(ctx context.Context, submissionID int64) ([]*entity.StatusHistory, error)
	entries            []*entity.StatusHistory
}

func (m *mockHistoryRepo) Create(ctx context.Context, h *entity.StatusHistory) error {
	if m.createFn != nil {
		return m.createFn(ctx, h)
	}
	m.entries = append(m.entries, h)
	return nil
}

func (m *mockHistoryRepo) ListBySubmission(ctx context.Context, submissionID int64) ([]*entity.StatusHistory, error) {
	if m.listBySubmissionFn != nil {
		return m.listBySubmissionFn(ctx, submissionID)
	}
	return m.entries, nil
}

type captureDispatcher struct {
	events []*event.Event
}

func (d *captureDispatcher) Subscribe(eventType event.Type, handler dispatcher.Handler) {}
func (d *captureDispatcher) SubscribeNamed(eventType event.Type, name string, handler dispatcher.Handler) {
}

func (d *captureDispatcher) Dispatch(ctx context.Context, evt *event.Event) error {
	d.events = append(d.events, evt)
	return nil
}

func (d *captureDispatcher) DispatchAsync(ctx context.Context, evt *event.Event) {
	d.events = append(d.events, evt)
}

func (d *captureDispatcher) Close() error { return nil }

type mockTxManager struct{}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopLogger struct{}

func (noopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Error(msg string, keysAndValues ...interface{}) {}

var (
	citizen  = entity.Actor{UserID: "citizen-1", Role: entity.RoleUser}
	citizen2 = entity.Actor{UserID: "citizen-2", Role: entity.RoleUser}
	clerk    = entity.Actor{UserID: "clerk-1", Role: entity.RoleEmployee}
)

var fixedNow = time.Date(2025, 1, 14, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func fixedOrderRef(now time.Time, kindPrefix string) string {
	return "OP-" + kindPrefix + "-20250114-abc123"
}

func newTestService(subs *mockSubmissionRepo, hist *mockHistoryRepo) WorkflowService {
	return NewWorkflowService(subs, hist, &mockTxManager{}, nil, noopLogger{},
		WithClock(fixedClock),
		WithOrderReferenceGenerator(fixedOrderRef),
	)
}

func sampleDocuments() []entity.Document {
	return []entity.Document{
		{Name: "death_certificate.pdf", Reference: "documents/abc_death_certificate.pdf"},
	}
}

func TestCreate(t *testing.T) {
	subs := &mockSubmissionRepo{}
	hist := &mockHistoryRepo{}
	svc := newTestService(subs, hist)

	sub, err := svc.Create(context.Background(), citizen, CreateInput{
		Kind:        entity.KindDeathRegistration,
		SubjectData: `{"deceased_name":"Juan Dela Cruz"}`,
		Options:     entity.Options{RegistrationType: entity.RegistrationRegular},
		Documents:   sampleDocuments(),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), sub.ID)
	assert.Equal(t, domainwf.StatePendingVerification, sub.Status)
	assert.Equal(t, int64(5_000), sub.FeeCentavos)
	assert.Equal(t, citizen.UserID, sub.OwnerUserID)
	assert.Empty(t, sub.OrderOfPaymentRef)
	assert.Equal(t, fixedNow, sub.CreatedAt)

	require.Len(t, hist.entries, 1)
	assert.Equal(t, "CREATE", hist.entries[0].Action)
	assert.Equal(t, domainwf.StatePendingVerification.String(), hist.entries[0].NewStatus)
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService(&mockSubmissionRepo{}, &mockHistoryRepo{})
	ctx := context.Background()

	t.Run("unknown kind", func(t *testing.T) {
		_, err := svc.Create(ctx, citizen, CreateInput{
			Kind:      entity.Kind("MARRIAGE_LICENSE"),
			Documents: sampleDocuments(),
		})
		assert.ErrorIs(t, err, ErrInvalidKind)
	})

	t.Run("staff may not file", func(t *testing.T) {
		_, err := svc.Create(ctx, clerk, CreateInput{
			Kind:      entity.KindCremationPermit,
			Documents: sampleDocuments(),
		})
		assert.ErrorIs(t, err, domainwf.ErrPermissionDenied)
	})

	t.Run("no documents attached", func(t *testing.T) {
		_, err := svc.Create(ctx, citizen, CreateInput{
			Kind: entity.KindCremationPermit,
		})
		assert.ErrorIs(t, err, ErrMissingDocuments)
	})

	t.Run("fee options rejected at intake", func(t *testing.T) {
		_, err := svc.Create(ctx, citizen, CreateInput{
			Kind:      entity.KindBurialPermit,
			Options:   entity.Options{BurialType: "MAUSOLEUM"},
			Documents: sampleDocuments(),
		})
		assert.Error(t, err)
	})
}

// storedSubmission wires the mock repo around a single in-memory record so a
// sequence of Perform calls behaves like the real persistence layer.
func storedSubmission(sub *entity.Submission) (*mockSubmissionRepo, *mockHistoryRepo) {
	subs := &mockSubmissionRepo{
		getByIDFn: func(ctx context.Context, id int64) (*entity.Submission, error) {
			if id != sub.ID {
				return nil, port.ErrNotFound
			}
			copied := *sub
			return &copied, nil
		},
		updateFromFn: func(ctx context.Context, updated *entity.Submission, fromStatus domainwf.State) error {
			if sub.Status != fromStatus {
				return port.ErrConcurrentModification
			}
			*sub = *updated
			return nil
		},
	}
	return subs, &mockHistoryRepo{}
}

func pendingSubmission() *entity.Submission {
	return &entity.Submission{
		ID:          7,
		Kind:        entity.KindCertificateRequest,
		OwnerUserID: citizen.UserID,
		Status:      domainwf.StatePendingVerification,
		Options:     entity.Options{NumberOfCopies: 1},
		FeeCentavos: 5_000,
		Documents:   sampleDocuments(),
		CreatedAt:   fixedNow,
		UpdatedAt:   fixedNow,
	}
}

func TestPerform_FullLifecycle(t *testing.T) {
	sub := pendingSubmission()
	subs, hist := storedSubmission(sub)
	svc := newTestService(subs, hist)
	ctx := context.Background()

	// Staff verifies the requirements and approves
	updated, err := svc.Perform(ctx, sub.Kind, sub.ID, domainwf.TriggerApprove, clerk, PerformPayload{})
	require.NoError(t, err)
	assert.Equal(t, domainwf.StateApprovedForPayment, updated.Status)
	assert.Equal(t, "OP-CR-20250114-abc123", updated.OrderOfPaymentRef)
	assert.Equal(t, clerk.UserID, updated.ProcessedBy)
	require.NotNil(t, updated.ProcessedAt)

	// The citizen pays and uploads the receipt
	proof, err := payment.FileProof("documents/xyz_gcash_receipt.png")
	require.NoError(t, err)
	updated, err = svc.Perform(ctx, sub.Kind, sub.ID, domainwf.TriggerSubmitPayment, citizen, PerformPayload{Proof: proof})
	require.NoError(t, err)
	assert.Equal(t, domainwf.StatePaymentSubmitted, updated.Status)
	require.NotNil(t, updated.Proof)
	assert.Equal(t, payment.ProofFile, updated.Proof.Kind)

	// Staff confirms the payment
	updated, err = svc.Perform(ctx, sub.Kind, sub.ID, domainwf.TriggerConfirmPayment, clerk, PerformPayload{})
	require.NoError(t, err)
	assert.Equal(t, domainwf.StateReadyForPickup, updated.Status)

	// The certificate is released
	updated, err = svc.Perform(ctx, sub.Kind, sub.ID, domainwf.TriggerComplete, clerk, PerformPayload{})
	require.NoError(t, err)
	assert.Equal(t, domainwf.StateCompleted, updated.Status)
	assert.True(t, updated.Status.IsTerminal())

	// Every transition left an audit entry
	require.Len(t, hist.entries, 4)
	assert.Equal(t, "APPROVE", hist.entries[0].Action)
	assert.Equal(t, "SUBMIT_PAYMENT", hist.entries[1].Action)
	assert.Equal(t, "CONFIRM_PAYMENT", hist.entries[2].Action)
	assert.Equal(t, "COMPLETE", hist.entries[3].Action)
}

func TestPerform_KindMismatchIsNotFound(t *testing.T) {
	sub := pendingSubmission()
	subs, hist := storedSubmission(sub)
	svc := newTestService(subs, hist)

	_, err := svc.Perform(context.Background(), entity.KindBurialPermit, sub.ID, domainwf.TriggerApprove, clerk, PerformPayload{})
	assert.ErrorIs(t, err, port.ErrNotFound)
}

func TestPerform_DoublePayment(t *testing.T) {
	sub := pendingSubmission()
	subs, hist := storedSubmission(sub)
	svc := newTestService(subs, hist)
	ctx := context.Background()

	_, err := svc.Perform(ctx, sub.Kind, sub.ID, domainwf.TriggerApprove, clerk, PerformPayload{})
	require.NoError(t, err)

	proof, _ := payment.ReceiptProof("OR-2025-000001")
	_, err = svc.Perform(ctx, sub.Kind, sub.ID, domainwf.TriggerSubmitPayment, citizen, PerformPayload{Proof: proof})
	require.NoError(t, err)

	// Paying again without an intervening rejection is a double payment
	again, _ := payment.ReceiptProof("OR-2025-000002")
	_, err = svc.Perform(ctx, sub.Kind, sub.ID, domainwf.TriggerSubmitPayment, citizen, PerformPayload{Proof: again})
	assert.ErrorIs(t, err, ErrAlreadyPaid)

	// The stored record is untouched
	assert.Equal(t, domainwf.StatePaymentSubmitted, sub.Status)
	assert.Equal(t, "OR-2025-000001", sub.Proof.Value)
	assert.Len(t, hist.entries, 2)

	// After staff reject the payment, paying again succeeds
	_, err = svc.Perform(ctx, sub.Kind, sub.ID, domainwf.TriggerRejectPayment, clerk, PerformPayload{
		Remarks: "Receipt number does not exist",
	})
	require.NoError(t, err)

	_, err = svc.Perform(ctx, sub.Kind, sub.ID, domainwf.TriggerSubmitPayment, citizen, PerformPayload{Proof: again})
	require.NoError(t, err)
	assert.Equal(t, "OR-2025-000002", sub.Proof.Value)
}

func TestPerform_PaymentWithoutProof(t *testing.T) {
	sub := pendingSubmission()
	sub.Status = domainwf.StateApprovedForPayment

	subs, _ := storedSubmission(sub)
	svc := newTestService(subs, &mockHistoryRepo{})

	_, err := svc.Perform(context.Background(), sub.Kind, sub.ID, domainwf.TriggerSubmitPayment, citizen, PerformPayload{})
	assert.ErrorIs(t, err, ErrMissingProof)
	assert.Equal(t, domainwf.StateApprovedForPayment, sub.Status)
}

func TestPerform_RemarksRequired(t *testing.T) {
	for _, trigger := range []domainwf.Trigger{domainwf.TriggerReturn, domainwf.TriggerReject} {
		t.Run(trigger.String(), func(t *testing.T) {
			sub := pendingSubmission()
			subs, hist := storedSubmission(sub)
			svc := newTestService(subs, hist)

			_, err := svc.Perform(context.Background(), sub.Kind, sub.ID, trigger, clerk, PerformPayload{})
			assert.ErrorIs(t, err, ErrMissingRemarks)
			assert.Equal(t, domainwf.StatePendingVerification, sub.Status)
			assert.Empty(t, hist.entries)
		})
	}
}

func TestPerform_RejectPaymentClearsProof(t *testing.T) {
	sub := pendingSubmission()
	sub.Status = domainwf.StatePaymentSubmitted
	sub.OrderOfPaymentRef = "OP-CR-20250114-abc123"
	proof, _ := payment.FileProof("documents/blurry_receipt.jpg")
	sub.Proof = proof

	subs, hist := storedSubmission(sub)
	svc := newTestService(subs, hist)

	updated, err := svc.Perform(context.Background(), sub.Kind, sub.ID, domainwf.TriggerRejectPayment, clerk, PerformPayload{
		Remarks: "Receipt image is unreadable, please re-upload",
	})
	require.NoError(t, err)
	assert.Equal(t, domainwf.StateApprovedForPayment, updated.Status)
	assert.Nil(t, updated.Proof)
	assert.Equal(t, "Receipt image is unreadable, please re-upload", updated.Remarks)
	// The order of payment survives so the citizen pays against the same reference
	assert.Equal(t, "OP-CR-20250114-abc123", updated.OrderOfPaymentRef)
	require.Len(t, hist.entries, 1)
	assert.Equal(t, "REJECT_PAYMENT", hist.entries[0].Action)
}

func TestPerform_ResubmitRecomputesFee(t *testing.T) {
	sub := pendingSubmission()
	sub.Status = domainwf.StateReturnedForCorrection
	sub.Remarks = "Number of copies does not match the request form"

	subs, _ := storedSubmission(sub)
	svc := newTestService(subs, &mockHistoryRepo{})

	newOpts := entity.Options{NumberOfCopies: 3}
	updated, err := svc.Perform(context.Background(), sub.Kind, sub.ID, domainwf.TriggerResubmit, citizen, PerformPayload{
		Options:     &newOpts,
		SubjectData: `{"copies":3}`,
	})
	require.NoError(t, err)
	assert.Equal(t, domainwf.StatePendingVerification, updated.Status)
	assert.Equal(t, int64(15_000), updated.FeeCentavos)
	assert.Equal(t, newOpts, updated.Options)
	assert.Empty(t, updated.Remarks)
}

func TestPerform_ResubmitKeepsFeeWhenOptionsUnchanged(t *testing.T) {
	sub := pendingSubmission()
	sub.Status = domainwf.StateReturnedForCorrection
	sub.Remarks = "Deceased name misspelled"

	subs, _ := storedSubmission(sub)
	svc := newTestService(subs, &mockHistoryRepo{})

	updated, err := svc.Perform(context.Background(), sub.Kind, sub.ID, domainwf.TriggerResubmit, citizen, PerformPayload{
		SubjectData: `{"copies":1,"name":"Juana Dela Cruz"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5_000), updated.FeeCentavos)
	assert.Empty(t, updated.Remarks)
}

func TestPerform_OrderReferenceGeneratedOnce(t *testing.T) {
	sub := pendingSubmission()
	subs, _ := storedSubmission(sub)

	refCalls := 0
	svc := NewWorkflowService(subs, &mockHistoryRepo{}, &mockTxManager{}, nil, noopLogger{},
		WithClock(fixedClock),
		WithOrderReferenceGenerator(func(now time.Time, kindPrefix string) string {
			refCalls++
			return "OP-CR-20250114-abc123"
		}),
	)
	ctx := context.Background()

	// Approve, return to the citizen, resubmit, approve again
	_, err := svc.Perform(ctx, sub.Kind, sub.ID, domainwf.TriggerApprove, clerk, PerformPayload{})
	require.NoError(t, err)

	// Force the stored record back so it can be resubmitted and approved again
	sub.Status = domainwf.StateReturnedForCorrection
	_, err = svc.Perform(ctx, sub.Kind, sub.ID, domainwf.TriggerResubmit, citizen, PerformPayload{})
	require.NoError(t, err)

	_, err = svc.Perform(ctx, sub.Kind, sub.ID, domainwf.TriggerApprove, clerk, PerformPayload{})
	require.NoError(t, err)

	assert.Equal(t, 1, refCalls)
	assert.Equal(t, "OP-CR-20250114-abc123", sub.OrderOfPaymentRef)
}

func TestPerform_ConcurrentModification(t *testing.T) {
	sub := pendingSubmission()
	subs, hist := storedSubmission(sub)
	// Simulate another clerk winning the race between read and update
	subs.updateFromFn = func(ctx context.Context, updated *entity.Submission, fromStatus domainwf.State) error {
		return port.ErrConcurrentModification
	}
	svc := newTestService(subs, hist)

	_, err := svc.Perform(context.Background(), sub.Kind, sub.ID, domainwf.TriggerApprove, clerk, PerformPayload{})
	assert.ErrorIs(t, err, port.ErrConcurrentModification)
	assert.Equal(t, domainwf.StatePendingVerification, sub.Status)
}

func TestPerform_PermissionDenied(t *testing.T) {
	sub := pendingSubmission()
	subs, hist := storedSubmission(sub)
	svc := newTestService(subs, hist)

	_, err := svc.Perform(context.Background(), sub.Kind, sub.ID, domainwf.TriggerApprove, citizen, PerformPayload{})
	assert.ErrorIs(t, err, domainwf.ErrPermissionDenied)
	assert.Equal(t, domainwf.StatePendingVerification, sub.Status)
	assert.Empty(t, hist.entries)
}

func TestGet_Visibility(t *testing.T) {
	sub := pendingSubmission()
	subs, _ := storedSubmission(sub)
	svc := newTestService(subs, &mockHistoryRepo{})
	ctx := context.Background()

	got, err := svc.Get(ctx, citizen, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, got.ID)

	got, err = svc.Get(ctx, clerk, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, got.ID)

	_, err = svc.Get(ctx, citizen2, sub.ID)
	assert.ErrorIs(t, err, domainwf.ErrPermissionDenied)

	_, err = svc.Get(ctx, citizen, 999)
	assert.ErrorIs(t, err, port.ErrNotFound)
}

func TestList(t *testing.T) {
	var gotOwner string
	var gotStatus domainwf.State
	subs := &mockSubmissionRepo{
		listByOwnerFn: func(ctx context.Context, ownerUserID string, limit, offset int) ([]*entity.Submission, error) {
			gotOwner = ownerUserID
			return nil, nil
		},
		listByStatusFn: func(ctx context.Context, status domainwf.State, limit, offset int) ([]*entity.Submission, error) {
			gotStatus = status
			return nil, nil
		},
	}
	svc := newTestService(subs, &mockHistoryRepo{})
	ctx := context.Background()

	_, err := svc.List(ctx, citizen, "", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, citizen.UserID, gotOwner)

	_, err = svc.List(ctx, clerk, domainwf.StatePaymentSubmitted, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, domainwf.StatePaymentSubmitted, gotStatus)

	// Staff with no filter see the verification queue
	_, err = svc.List(ctx, clerk, "", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, domainwf.StatePendingVerification, gotStatus)
}

func TestPerform_OrderOfPaymentGuard(t *testing.T) {
	sub := pendingSubmission()
	subs, hist := storedSubmission(sub)

	// A generator yielding no reference must not let an approval persist
	svc := NewWorkflowService(subs, hist, &mockTxManager{}, nil, noopLogger{},
		WithClock(fixedClock),
		WithOrderReferenceGenerator(func(now time.Time, kindPrefix string) string { return "" }),
	)

	_, err := svc.Perform(context.Background(), sub.Kind, sub.ID, domainwf.TriggerApprove, clerk, PerformPayload{})
	require.Error(t, err)
	assert.Equal(t, domainwf.StatePendingVerification, sub.Status)
	assert.Empty(t, hist.entries)
}

func TestEventsCarryRequestCorrelation(t *testing.T) {
	sub := pendingSubmission()
	subs, hist := storedSubmission(sub)
	captured := &captureDispatcher{}
	svc := NewWorkflowService(subs, hist, &mockTxManager{}, captured, noopLogger{},
		WithClock(fixedClock),
		WithOrderReferenceGenerator(fixedOrderRef),
	)

	ctx := event.WithCorrelationID(context.Background(), "req-42")
	_, err := svc.Perform(ctx, sub.Kind, sub.ID, domainwf.TriggerApprove, clerk, PerformPayload{})
	require.NoError(t, err)

	require.Len(t, captured.events, 1)
	evt := captured.events[0]
	assert.Equal(t, event.TypeSubmissionApproved, evt.Type)
	assert.Equal(t, "req-42", evt.CorrelationID)
	assert.Equal(t, sub.ID, evt.SubmissionID)
	assert.Equal(t, clerk.UserID, evt.ActorUserID)
	assert.Equal(t, domainwf.StatePendingVerification.String(), evt.GetPayloadString("from_status"))
	assert.Equal(t, domainwf.StateApprovedForPayment.String(), evt.GetPayloadString("to_status"))

	// Without a request correlation the event still gets a generated chain id
	proof, _ := payment.ReceiptProof("OR-2025-000100")
	_, err = svc.Perform(context.Background(), sub.Kind, sub.ID, domainwf.TriggerSubmitPayment, citizen, PerformPayload{Proof: proof})
	require.NoError(t, err)
	require.Len(t, captured.events, 2)
	assert.NotEmpty(t, captured.events[1].CorrelationID)
	assert.NotEqual(t, "req-42", captured.events[1].CorrelationID)
}

func TestCreate_EmitsIntakeEvent(t *testing.T) {
	captured := &captureDispatcher{}
	svc := NewWorkflowService(&mockSubmissionRepo{}, &mockHistoryRepo{}, &mockTxManager{}, captured, noopLogger{},
		WithClock(fixedClock),
	)

	_, err := svc.Create(context.Background(), citizen, CreateInput{
		Kind:      entity.KindDeathRegistration,
		Options:   entity.Options{RegistrationType: entity.RegistrationRegular},
		Documents: sampleDocuments(),
	})
	require.NoError(t, err)

	require.Len(t, captured.events, 1)
	evt := captured.events[0]
	assert.Equal(t, event.TypeSubmissionCreated, evt.Type)
	assert.Equal(t, entity.KindDeathRegistration.String(), evt.GetPayloadString("kind"))
	assert.Equal(t, int64(5_000), evt.GetPayloadInt("fee_centavos"))
}

func TestHistory_Visibility(t *testing.T) {
	sub := pendingSubmission()
	subs, hist := storedSubmission(sub)
	hist.entries = []*entity.StatusHistory{
		{SubmissionID: sub.ID, Action: "CREATE", NewStatus: domainwf.StatePendingVerification.String()},
	}
	svc := newTestService(subs, hist)
	ctx := context.Background()

	entries, err := svc.History(ctx, citizen, sub.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = svc.History(ctx, citizen2, sub.ID)
	assert.ErrorIs(t, err, domainwf.ErrPermissionDenied)
}
