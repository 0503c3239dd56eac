package event

// Type identifies the type of domain event
type Type string

const (
	TypeSubmissionCreated     Type = "submission.created"
	TypeSubmissionApproved    Type = "submission.approved"
	TypeSubmissionReturned    Type = "submission.returned"
	TypeSubmissionRejected    Type = "submission.rejected"
	TypeSubmissionResubmitted Type = "submission.resubmitted"
	TypePaymentSubmitted      Type = "submission.payment_submitted"
	TypePaymentConfirmed      Type = "submission.payment_confirmed"
	TypePaymentRejected       Type = "submission.payment_rejected"
	TypeSubmissionCompleted   Type = "submission.completed"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeSubmissionCreated,
		TypeSubmissionApproved,
		TypeSubmissionReturned,
		TypeSubmissionRejected,
		TypeSubmissionResubmitted,
		TypePaymentSubmitted,
		TypePaymentConfirmed,
		TypePaymentRejected,
		TypeSubmissionCompleted:
		return true
	default:
		return false
	}
}
