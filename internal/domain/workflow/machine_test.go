package workflow

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestState_IsTerminal(t *testing.T) {
	tests := []struct {
		state    State
		expected bool
	}{
		{StatePendingVerification, false},
		{StateApprovedForPayment, false},
		{StatePaymentSubmitted, false},
		{StateReadyForPickup, false},
		{StateReturnedForCorrection, false},
		{StateRejected, true},
		{StateCompleted, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsTerminal(); got != tt.expected {
				t.Errorf("State.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected bool
	}{
		{"initial state", StatePendingVerification, true},
		{"terminal state", StateCompleted, true},
		{"invalid state", State("INVALID"), false},
		{"empty state", State(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.expected {
				t.Errorf("State.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_RequiresOrderOfPayment(t *testing.T) {
	tests := []struct {
		state    State
		expected bool
	}{
		{StatePendingVerification, false},
		{StateReturnedForCorrection, false},
		{StateRejected, false},
		{StateApprovedForPayment, true},
		{StatePaymentSubmitted, true},
		{StateReadyForPickup, true},
		{StateCompleted, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.RequiresOrderOfPayment(); got != tt.expected {
				t.Errorf("State.RequiresOrderOfPayment() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTrigger_String(t *testing.T) {
	if got := TriggerApprove.String(); got != "APPROVE" {
		t.Errorf("Trigger.String() = %v, want %v", got, "APPROVE")
	}
}

func TestBuilder_Configure(t *testing.T) {
	builder := NewBuilder()

	config := builder.Configure(StatePendingVerification)
	if config == nil {
		t.Fatal("Configure() returned nil")
	}

	// Configure same state again should return same config
	config2 := builder.Configure(StatePendingVerification)
	if config != config2 {
		t.Error("Configure() should return same config for same state")
	}
}

func TestBuilder_ConfigurePanicsOnInvalidState(t *testing.T) {
	builder := NewBuilder()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Configure() should panic on invalid state")
		}
	}()

	builder.Configure(State("INVALID"))
}

func TestBuilder_BuildPanicsOnInvalidInitialState(t *testing.T) {
	builder := NewBuilder()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Build() should panic on invalid initial state")
		}
	}()

	builder.Build(State("INVALID"))
}

func TestStateConfiguration_Permit(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StatePendingVerification).
		Permit(TriggerApprove, StateApprovedForPayment)

	machine := builder.Build(StatePendingVerification)

	if !machine.CanFire(TriggerApprove) {
		t.Error("CanFire() should return true for permitted trigger")
	}

	if err := machine.Fire(context.Background(), TriggerApprove); err != nil {
		t.Errorf("Fire() failed: %v", err)
	}

	if machine.State() != StateApprovedForPayment {
		t.Errorf("State after Fire() = %v, want %v", machine.State(), StateApprovedForPayment)
	}
}

func TestStateConfiguration_PermitIf_GuardPasses(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StatePendingVerification).
		PermitIf(TriggerApprove, StateApprovedForPayment, func(ctx context.Context) error {
			return nil
		})

	machine := builder.Build(StatePendingVerification)

	if err := machine.Fire(context.Background(), TriggerApprove); err != nil {
		t.Errorf("Fire() failed: %v", err)
	}

	if machine.State() != StateApprovedForPayment {
		t.Errorf("State after Fire() = %v, want %v", machine.State(), StateApprovedForPayment)
	}
}

func TestStateConfiguration_PermitIf_GuardFails(t *testing.T) {
	guardErr := fmt.Errorf("%w: wrong role", ErrPermissionDenied)

	builder := NewBuilder()
	builder.Configure(StatePendingVerification).
		PermitIf(TriggerApprove, StateApprovedForPayment, func(ctx context.Context) error {
			return guardErr
		})

	machine := builder.Build(StatePendingVerification)

	err := machine.Fire(context.Background(), TriggerApprove)
	if err == nil {
		t.Fatal("Fire() should fail when guard fails")
	}
	if !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("Fire() error = %v, want ErrPermissionDenied", err)
	}

	if machine.State() != StatePendingVerification {
		t.Errorf("State changed after failed Fire(): %v", machine.State())
	}
}

func TestStateMachine_Fire_InvalidTrigger(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StatePendingVerification).
		Permit(TriggerApprove, StateApprovedForPayment)

	machine := builder.Build(StatePendingVerification)

	err := machine.Fire(context.Background(), TriggerComplete)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Fire() error = %v, want ErrInvalidTransition", err)
	}

	if machine.State() != StatePendingVerification {
		t.Errorf("State changed after invalid Fire(): %v", machine.State())
	}
}

func TestStateMachine_Fire_UnconfiguredState(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StatePendingVerification).
		Permit(TriggerApprove, StateApprovedForPayment)

	// REJECTED has no configuration at all
	machine := builder.Build(StateRejected)

	err := machine.Fire(context.Background(), TriggerApprove)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Fire() error = %v, want ErrInvalidTransition", err)
	}
}

func TestStateMachine_CanFire(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StatePaymentSubmitted).
		Permit(TriggerConfirmPayment, StateReadyForPickup).
		Permit(TriggerRejectPayment, StateApprovedForPayment)

	machine := builder.Build(StatePaymentSubmitted)

	if !machine.CanFire(TriggerConfirmPayment) {
		t.Error("CanFire(CONFIRM_PAYMENT) should be true")
	}
	if !machine.CanFire(TriggerRejectPayment) {
		t.Error("CanFire(REJECT_PAYMENT) should be true")
	}
	if machine.CanFire(TriggerApprove) {
		t.Error("CanFire(APPROVE) should be false")
	}
}

func TestStateMachine_PermittedTriggers(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StatePaymentSubmitted).
		Permit(TriggerConfirmPayment, StateReadyForPickup).
		Permit(TriggerRejectPayment, StateApprovedForPayment)

	machine := builder.Build(StatePaymentSubmitted)

	triggers := machine.PermittedTriggers()
	if len(triggers) != 2 {
		t.Errorf("PermittedTriggers() returned %d triggers, want 2", len(triggers))
	}

	machine2 := builder.Build(StateCompleted)
	if len(machine2.PermittedTriggers()) != 0 {
		t.Error("PermittedTriggers() should be empty for an unconfigured state")
	}
}

func TestBuilder_BuildIsolation(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StatePendingVerification).
		Permit(TriggerApprove, StateApprovedForPayment)

	m1 := builder.Build(StatePendingVerification)
	m2 := builder.Build(StatePendingVerification)

	if err := m1.Fire(context.Background(), TriggerApprove); err != nil {
		t.Fatalf("Fire() failed: %v", err)
	}

	if m2.State() != StatePendingVerification {
		t.Error("Machines built from the same builder should not share state")
	}
}
