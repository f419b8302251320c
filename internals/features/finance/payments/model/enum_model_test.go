package model

import (
	"errors"
	"testing"
)

func TestPaymentStatusNext(t *testing.T) {
	none := PaymentStatus("")

	tests := []struct {
		name    string
		from    PaymentStatus
		action  PaymentAction
		want    PaymentStatus
		wantErr bool
	}{
		{"initiate from nothing", none, ActionInitiate, PaymentStatusPending, false},
		{"initiate twice", PaymentStatusPending, ActionInitiate, "", true},
		{"proof on pending", PaymentStatusPending, ActionUploadProof, PaymentStatusPending, false},
		{"proof resubmits failed", PaymentStatusFailed, ActionUploadProof, PaymentStatusPending, false},
		{"proof on success", PaymentStatusSuccess, ActionUploadProof, "", true},
		{"approve pending", PaymentStatusPending, ActionApprove, PaymentStatusSuccess, false},
		{"approve failed", PaymentStatusFailed, ActionApprove, "", true},
		{"approve success", PaymentStatusSuccess, ActionApprove, "", true},
		{"reject pending", PaymentStatusPending, ActionReject, PaymentStatusFailed, false},
		{"reject failed again", PaymentStatusFailed, ActionReject, PaymentStatusFailed, false},
		{"reject success", PaymentStatusSuccess, ActionReject, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.from.Next(tt.action)
			if tt.wantErr {
				var te *TransitionError
				if !errors.As(err, &te) {
					t.Fatalf("expected TransitionError, got %v", err)
				}
				if te.From != tt.from || te.Action != tt.action {
					t.Errorf("TransitionError = %+v", te)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Next() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSuccessIsTerminalForEveryAction(t *testing.T) {
	for _, a := range []PaymentAction{ActionInitiate, ActionUploadProof, ActionApprove, ActionReject} {
		if _, err := PaymentStatusSuccess.Next(a); err == nil {
			t.Errorf("success accepted %s", a)
		}
	}
}

func TestUnknownAction(t *testing.T) {
	_, err := PaymentStatusPending.Next(PaymentAction("REFUND"))
	if err == nil {
		t.Fatal("expected error for unknown action")
	}
	var te *TransitionError
	if errors.As(err, &te) {
		t.Error("unknown action should not be reported as a transition error")
	}
}

func TestParsePaymentMethod(t *testing.T) {
	for _, s := range []string{"transfer", "card", "voucher", "cash"} {
		if _, ok := ParsePaymentMethod(s); !ok {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []string{"", "CASH", "gateway"} {
		if _, ok := ParsePaymentMethod(s); ok {
			t.Errorf("%q should be invalid", s)
		}
	}
}
