// Package payment holds the payment-side value objects of the workflow:
// the proof of payment a citizen submits and the order-of-payment
// reference staff issue at approval.
package payment

import "errors"

var (
	// ErrEmptyProof is returned when a proof is constructed without a value
	ErrEmptyProof = errors.New("payment proof value is empty")

	// ErrInvalidProofKind is returned for an unrecognized proof form
	ErrInvalidProofKind = errors.New("invalid payment proof kind")
)

// ProofKind distinguishes the two accepted proof forms
type ProofKind string

const (
	// ProofFile is an uploaded receipt image, stored as a document reference
	ProofFile ProofKind = "FILE"

	// ProofReceipt is a manually entered official receipt number
	ProofReceipt ProofKind = "RECEIPT"
)

// IsValid returns true if the kind is one of the two accepted forms
func (k ProofKind) IsValid() bool {
	return k == ProofFile || k == ProofReceipt
}

// Proof is evidence of payment: exactly one of an uploaded-file reference
// or a receipt number, never both.
type Proof struct {
	Kind  ProofKind `json:"kind"`
	Value string    `json:"value"`
}

// NewProof validates and constructs a proof of payment
func NewProof(kind ProofKind, value string) (*Proof, error) {
	if !kind.IsValid() {
		return nil, ErrInvalidProofKind
	}
	if value == "" {
		return nil, ErrEmptyProof
	}
	return &Proof{Kind: kind, Value: value}, nil
}

// FileProof constructs a proof from an uploaded document reference
func FileProof(reference string) (*Proof, error) {
	return NewProof(ProofFile, reference)
}

// ReceiptProof constructs a proof from a manually entered receipt number
func ReceiptProof(number string) (*Proof, error) {
	return NewProof(ProofReceipt, number)
}
