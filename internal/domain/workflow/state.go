package workflow

// State represents a submission's position in the registry lifecycle
type State string

const (
	StatePendingVerification   State = "PENDING_VERIFICATION"
	StateApprovedForPayment    State = "APPROVED_FOR_PAYMENT"
	StatePaymentSubmitted      State = "PAYMENT_SUBMITTED"
	StateReadyForPickup        State = "READY_FOR_PICKUP"
	StateReturnedForCorrection State = "RETURNED_FOR_CORRECTION"
	StateRejected              State = "REJECTED"
	StateCompleted             State = "COMPLETED"
)

var validStates = map[State]bool{
	StatePendingVerification:   true,
	StateApprovedForPayment:    true,
	StatePaymentSubmitted:      true,
	StateReadyForPickup:        true,
	StateReturnedForCorrection: true,
	StateRejected:              true,
	StateCompleted:             true,
}

var terminalStates = map[State]bool{
	StateRejected:  true,
	StateCompleted: true,
}

// States in which a submission must carry an order-of-payment reference.
var orderOfPaymentStates = map[State]bool{
	StateApprovedForPayment: true,
	StatePaymentSubmitted:   true,
	StateReadyForPickup:     true,
	StateCompleted:          true,
}

// IsTerminal returns true if the state is a terminal state (no further transitions allowed)
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// RequiresOrderOfPayment returns true if a submission in this state must
// already have an order-of-payment reference assigned.
func (s State) RequiresOrderOfPayment() bool {
	return orderOfPaymentStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a valid workflow state
func (s State) IsValid() bool {
	return validStates[s]
}
