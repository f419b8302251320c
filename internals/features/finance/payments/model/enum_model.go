package model

import "fmt"

type PaymentStatus string
type PaymentMethod string
type PaymentAction string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

const (
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodVoucher  PaymentMethod = "voucher"
	PaymentMethodCash     PaymentMethod = "cash"
)

// Aksi yang menggerakkan state machine; nama yang sama dipakai di audit log.
const (
	ActionInitiate    PaymentAction = "INITIATE"
	ActionUploadProof PaymentAction = "UPLOAD_PROOF"
	ActionApprove     PaymentAction = "APPROVE"
	ActionReject      PaymentAction = "REJECT"
)

var paymentMethods = map[PaymentMethod]struct{}{
	PaymentMethodTransfer: {},
	PaymentMethodCard:     {},
	PaymentMethodVoucher:  {},
	PaymentMethodCash:     {},
}

func (m PaymentMethod) Valid() bool {
	_, ok := paymentMethods[m]
	return ok
}

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	m := PaymentMethod(s)
	return m, m.Valid()
}

func (s PaymentStatus) IsTerminal() bool { return s == PaymentStatusSuccess }

// TransitionError: aksi tidak diizinkan dari status saat ini.
type TransitionError struct {
	From   PaymentStatus
	Action PaymentAction
}

func (e *TransitionError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("cannot %s a payment that already exists", e.Action)
	}
	return fmt.Sprintf("cannot %s payment in status %s", e.Action, e.From)
}

// Next menghitung status tujuan. Status kosong berarti payment belum ada (hanya INITIATE yang sah).
//
//	(none)  --INITIATE-->     pending
//	pending --UPLOAD_PROOF--> pending
//	failed  --UPLOAD_PROOF--> pending
//	pending --APPROVE-->      success
//	pending --REJECT-->       failed
//	failed  --REJECT-->       failed
//	success --*-->            (ditolak)
func (s PaymentStatus) Next(a PaymentAction) (PaymentStatus, error) {
	switch a {
	case ActionInitiate:
		if s == "" {
			return PaymentStatusPending, nil
		}
	case ActionUploadProof:
		if s == PaymentStatusPending || s == PaymentStatusFailed {
			return PaymentStatusPending, nil
		}
	case ActionApprove:
		if s == PaymentStatusPending {
			return PaymentStatusSuccess, nil
		}
	case ActionReject:
		if s == PaymentStatusPending || s == PaymentStatusFailed {
			return PaymentStatusFailed, nil
		}
	default:
		return "", fmt.Errorf("unknown payment action %q", a)
	}
	return "", &TransitionError{From: s, Action: a}
}
