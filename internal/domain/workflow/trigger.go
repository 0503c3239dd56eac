package workflow

// Trigger represents a workflow action that can cause a state transition
type Trigger string

const (
	TriggerApprove        Trigger = "APPROVE"
	TriggerReturn         Trigger = "RETURN"
	TriggerReject         Trigger = "REJECT"
	TriggerSubmitPayment  Trigger = "SUBMIT_PAYMENT"
	TriggerConfirmPayment Trigger = "CONFIRM_PAYMENT"
	TriggerRejectPayment  Trigger = "REJECT_PAYMENT"
	TriggerComplete       Trigger = "COMPLETE"
	TriggerResubmit       Trigger = "RESUBMIT"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
