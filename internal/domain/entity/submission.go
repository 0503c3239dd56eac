package entity

import (
	"time"

	"github.com/jcabrera/civil-registry/internal/domain/payment"
	"github.com/jcabrera/civil-registry/internal/domain/workflow"
)

// Submission is a single civil-registry application of any kind.
// Status, fee, payment and accountability fields are mutated only through
// the workflow service; handlers must never write them directly.
type Submission struct {
	ID          int64          `json:"id"`
	Kind        Kind           `json:"kind"`
	OwnerUserID string         `json:"owner_user_id"`
	Status      workflow.State `json:"status"`

	// SubjectData is the kind-specific payload (deceased details, requester
	// details, reason). The engine treats it as opaque JSON.
	SubjectData string `json:"subject_data"`

	// Options are the subject fields that affect the fee.
	Options Options `json:"options"`

	// FeeCentavos is computed at intake and recomputed only when a returned
	// submission is resubmitted with different options.
	FeeCentavos int64 `json:"fee_centavos"`

	// OrderOfPaymentRef is assigned exactly once, at approval. Empty before.
	OrderOfPaymentRef string `json:"order_of_payment_ref,omitempty"`

	// Proof is nil except between payment submission and release, and is
	// cleared again when staff reject a payment.
	Proof *payment.Proof `json:"proof,omitempty"`

	// Remarks carries the staff note from a return, rejection or payment
	// rejection. Cleared on resubmission.
	Remarks string `json:"remarks,omitempty"`

	ProcessedBy string     `json:"processed_by,omitempty"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`

	Documents []Document `json:"documents,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Options are the fee-relevant subject fields. Which fields are required
// depends on the submission kind.
type Options struct {
	RegistrationType string `json:"registration_type,omitempty"` // REGULAR | DELAYED
	BurialType       string `json:"burial_type,omitempty"`       // GROUND | NICHE
	NicheType        string `json:"niche_type,omitempty"`        // CHILD | ADULT
	NumberOfCopies   int    `json:"number_of_copies,omitempty"`
}

// Registration type constants
const (
	RegistrationRegular = "REGULAR"
	RegistrationDelayed = "DELAYED"
)

// Burial type constants
const (
	BurialGround = "GROUND"
	BurialNiche  = "NICHE"
)

// Niche type constants
const (
	NicheChild = "CHILD"
	NicheAdult = "ADULT"
)

// Document is an uploaded requirement attached to a submission. The engine
// stores only the opaque reference returned by the document store.
type Document struct {
	ID           int64     `json:"id"`
	SubmissionID int64     `json:"submission_id"`
	Name         string    `json:"name"`
	Reference    string    `json:"reference"`
	UploadedAt   time.Time `json:"uploaded_at"`
}
