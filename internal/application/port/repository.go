package port

import (
	"context"
	"errors"

	"github.com/jcabrera/civil-registry/internal/domain/entity"
	"github.com/jcabrera/civil-registry/internal/domain/workflow"
)

var (
	// ErrNotFound is returned when no submission exists for the given id
	ErrNotFound = errors.New("submission not found")

	// ErrConcurrentModification is returned when a conditional update loses
	// to a concurrent writer: the status read before the update no longer
	// matches the stored row.
	ErrConcurrentModification = errors.New("submission modified concurrently")
)

// SubmissionRepository defines persistence operations for Submission.
// UpdateFrom is the only write path for workflow transitions: it applies the
// full mutated record conditioned on the status last read, so two staff
// actors racing on the same id cannot both succeed.
type SubmissionRepository interface {
	Create(ctx context.Context, sub *entity.Submission) error
	GetByID(ctx context.Context, id int64) (*entity.Submission, error)
	ListByOwner(ctx context.Context, ownerUserID string, limit, offset int) ([]*entity.Submission, error)
	ListByStatus(ctx context.Context, status workflow.State, limit, offset int) ([]*entity.Submission, error)

	// UpdateFrom persists sub if and only if the stored status still equals
	// fromStatus. Returns ErrConcurrentModification when the condition fails
	// on an existing row, ErrNotFound when the row is gone.
	UpdateFrom(ctx context.Context, sub *entity.Submission, fromStatus workflow.State) error
}

// HistoryRepository defines persistence operations for the status audit trail
type HistoryRepository interface {
	Create(ctx context.Context, h *entity.StatusHistory) error
	ListBySubmission(ctx context.Context, submissionID int64) ([]*entity.StatusHistory, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
