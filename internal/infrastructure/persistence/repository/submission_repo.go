package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jcabrera/civil-registry/internal/application/port"
	"github.com/jcabrera/civil-registry/internal/domain/entity"
	"github.com/jcabrera/civil-registry/internal/domain/payment"
	"github.com/jcabrera/civil-registry/internal/domain/workflow"
	"github.com/jcabrera/civil-registry/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// SubmissionRepository implements port.SubmissionRepository on sqlite
type SubmissionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(db *sql.DB, logger *zap.Logger) port.SubmissionRepository {
	return &SubmissionRepository{
		db:     db,
		logger: logger,
	}
}

const submissionColumns = `
	id, kind, owner_user_id, status, subject_data,
	registration_type, burial_type, niche_type, number_of_copies,
	fee_centavos, order_of_payment_ref, proof_kind, proof_value,
	remarks, processed_by, processed_at, created_at, updated_at
`

// Create inserts a new submission and its requirement documents
func (r *SubmissionRepository) Create(ctx context.Context, sub *entity.Submission) error {
	query := `
		INSERT INTO submissions (
			kind, owner_user_id, status, subject_data,
			registration_type, burial_type, niche_type, number_of_copies,
			fee_centavos, order_of_payment_ref, proof_kind, proof_value,
			remarks, processed_by, processed_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	proofKind, proofValue := proofColumns(sub.Proof)
	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		sub.Kind.String(),
		sub.OwnerUserID,
		sub.Status.String(),
		sub.SubjectData,
		sub.Options.RegistrationType,
		sub.Options.BurialType,
		sub.Options.NicheType,
		sub.Options.NumberOfCopies,
		sub.FeeCentavos,
		nullString(sub.OrderOfPaymentRef),
		proofKind,
		proofValue,
		sub.Remarks,
		sub.ProcessedBy,
		nullTime(sub.ProcessedAt),
		sub.CreatedAt,
		sub.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create submission", zap.Error(err))
		return fmt.Errorf("failed to create submission: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	sub.ID = id

	for i := range sub.Documents {
		doc := &sub.Documents[i]
		doc.SubmissionID = id
		if err := r.createDocument(ctx, doc); err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves a submission with its documents
func (r *SubmissionRepository) GetByID(ctx context.Context, id int64) (*entity.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = ?`

	sub, err := r.scanSubmission(r.getExecutor(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: id %d", port.ErrNotFound, id)
	}
	if err != nil {
		r.logger.Error("Failed to get submission", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	docs, err := r.listDocuments(ctx, id)
	if err != nil {
		return nil, err
	}
	sub.Documents = docs

	return sub, nil
}

// ListByOwner retrieves a citizen's submissions with pagination
func (r *SubmissionRepository) ListByOwner(ctx context.Context, ownerUserID string, limit, offset int) ([]*entity.Submission, error) {
	query := `SELECT ` + submissionColumns + `
		FROM submissions
		WHERE owner_user_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`

	return r.list(ctx, query, ownerUserID, limit, offset)
}

// ListByStatus retrieves submissions in a given state with pagination
func (r *SubmissionRepository) ListByStatus(ctx context.Context, status workflow.State, limit, offset int) ([]*entity.Submission, error) {
	query := `SELECT ` + submissionColumns + `
		FROM submissions
		WHERE status = ?
		ORDER BY created_at ASC
		LIMIT ? OFFSET ?`

	return r.list(ctx, query, status.String(), limit, offset)
}

// UpdateFrom persists the submission conditioned on the status last read.
// A stale fromStatus means another writer got there first.
func (r *SubmissionRepository) UpdateFrom(ctx context.Context, sub *entity.Submission, fromStatus workflow.State) error {
	query := `
		UPDATE submissions SET
			status = ?, subject_data = ?,
			registration_type = ?, burial_type = ?, niche_type = ?, number_of_copies = ?,
			fee_centavos = ?, order_of_payment_ref = ?, proof_kind = ?, proof_value = ?,
			remarks = ?, processed_by = ?, processed_at = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`

	proofKind, proofValue := proofColumns(sub.Proof)
	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		sub.Status.String(),
		sub.SubjectData,
		sub.Options.RegistrationType,
		sub.Options.BurialType,
		sub.Options.NicheType,
		sub.Options.NumberOfCopies,
		sub.FeeCentavos,
		nullString(sub.OrderOfPaymentRef),
		proofKind,
		proofValue,
		sub.Remarks,
		sub.ProcessedBy,
		nullTime(sub.ProcessedAt),
		sub.UpdatedAt,
		sub.ID,
		fromStatus.String(),
	)
	if err != nil {
		r.logger.Error("Failed to update submission", zap.Int64("id", sub.ID), zap.Error(err))
		return fmt.Errorf("failed to update submission: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		var exists int
		err := r.getExecutor(ctx).QueryRowContext(ctx,
			`SELECT 1 FROM submissions WHERE id = ?`, sub.ID).Scan(&exists)
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: id %d", port.ErrNotFound, sub.ID)
		}
		if err != nil {
			return fmt.Errorf("failed to check submission: %w", err)
		}
		return fmt.Errorf("%w: id %d no longer in status %s", port.ErrConcurrentModification, sub.ID, fromStatus)
	}

	return nil
}

func (r *SubmissionRepository) list(ctx context.Context, query string, args ...interface{}) ([]*entity.Submission, error) {
	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list submissions", zap.Error(err))
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var subs []*entity.Submission
	for rows.Next() {
		sub, err := r.scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		subs = append(subs, sub)
	}

	return subs, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func (r *SubmissionRepository) scanSubmission(row scanner) (*entity.Submission, error) {
	var (
		sub         entity.Submission
		kind        string
		status      string
		orderRef    sql.NullString
		proofKind   sql.NullString
		proofValue  sql.NullString
		processedAt sql.NullTime
	)

	err := row.Scan(
		&sub.ID,
		&kind,
		&sub.OwnerUserID,
		&status,
		&sub.SubjectData,
		&sub.Options.RegistrationType,
		&sub.Options.BurialType,
		&sub.Options.NicheType,
		&sub.Options.NumberOfCopies,
		&sub.FeeCentavos,
		&orderRef,
		&proofKind,
		&proofValue,
		&sub.Remarks,
		&sub.ProcessedBy,
		&processedAt,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	sub.Kind = entity.Kind(kind)
	sub.Status = workflow.State(status)
	if orderRef.Valid {
		sub.OrderOfPaymentRef = orderRef.String
	}
	if proofKind.Valid && proofValue.Valid {
		sub.Proof = &payment.Proof{
			Kind:  payment.ProofKind(proofKind.String),
			Value: proofValue.String,
		}
	}
	if processedAt.Valid {
		sub.ProcessedAt = &processedAt.Time
	}

	return &sub, nil
}

func (r *SubmissionRepository) createDocument(ctx context.Context, doc *entity.Document) error {
	query := `
		INSERT INTO submission_documents (submission_id, name, reference, uploaded_at)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		doc.SubmissionID, doc.Name, doc.Reference, doc.UploadedAt)
	if err != nil {
		r.logger.Error("Failed to create document", zap.Error(err))
		return fmt.Errorf("failed to create document: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	doc.ID = id
	return nil
}

func (r *SubmissionRepository) listDocuments(ctx context.Context, submissionID int64) ([]entity.Document, error) {
	query := `
		SELECT id, submission_id, name, reference, uploaded_at
		FROM submission_documents
		WHERE submission_id = ?
		ORDER BY id ASC
	`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []entity.Document
	for rows.Next() {
		var doc entity.Document
		if err := rows.Scan(&doc.ID, &doc.SubmissionID, &doc.Name, &doc.Reference, &doc.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// getExecutor returns the transaction from context when one is open
func (r *SubmissionRepository) getExecutor(ctx context.Context) executor {
	if tx := sqlite.ExtractTx(ctx); tx != nil {
		return tx
	}
	return r.db
}

// executor interface covers both *sql.DB and *sql.Tx
type executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func proofColumns(p *payment.Proof) (sql.NullString, sql.NullString) {
	if p == nil {
		return sql.NullString{}, sql.NullString{}
	}
	return sql.NullString{String: string(p.Kind), Valid: true},
		sql.NullString{String: p.Value, Valid: true}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// Verify interface compliance
var _ port.SubmissionRepository = (*SubmissionRepository)(nil)
