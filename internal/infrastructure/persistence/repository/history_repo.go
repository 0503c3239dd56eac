package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jcabrera/civil-registry/internal/application/port"
	"github.com/jcabrera/civil-registry/internal/domain/entity"
	"github.com/jcabrera/civil-registry/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// HistoryRepository implements port.HistoryRepository on sqlite
type HistoryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *sql.DB, logger *zap.Logger) port.HistoryRepository {
	return &HistoryRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends one audit-trail row
func (r *HistoryRepository) Create(ctx context.Context, h *entity.StatusHistory) error {
	query := `
		INSERT INTO status_history (
			submission_id, actor_user_id, previous_status, new_status,
			action, remarks, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		h.SubmissionID,
		h.ActorUserID,
		h.PreviousStatus,
		h.NewStatus,
		h.Action,
		h.Remarks,
		h.Timestamp,
	)
	if err != nil {
		r.logger.Error("Failed to create history entry", zap.Error(err))
		return fmt.Errorf("failed to create history entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	h.ID = id
	return nil
}

// ListBySubmission retrieves the audit trail ordered oldest first
func (r *HistoryRepository) ListBySubmission(ctx context.Context, submissionID int64) ([]*entity.StatusHistory, error) {
	query := `
		SELECT id, submission_id, actor_user_id, previous_status, new_status,
			action, remarks, timestamp
		FROM status_history
		WHERE submission_id = ?
		ORDER BY id ASC
	`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, submissionID)
	if err != nil {
		r.logger.Error("Failed to list history", zap.Int64("submission_id", submissionID), zap.Error(err))
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var entries []*entity.StatusHistory
	for rows.Next() {
		var h entity.StatusHistory
		err := rows.Scan(
			&h.ID,
			&h.SubmissionID,
			&h.ActorUserID,
			&h.PreviousStatus,
			&h.NewStatus,
			&h.Action,
			&h.Remarks,
			&h.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, &h)
	}

	return entries, rows.Err()
}

// getExecutor returns the transaction from context when one is open
func (r *HistoryRepository) getExecutor(ctx context.Context) executor {
	if tx := sqlite.ExtractTx(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Verify interface compliance
var _ port.HistoryRepository = (*HistoryRepository)(nil)
