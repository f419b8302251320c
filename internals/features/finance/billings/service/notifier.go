package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type BillingNotice struct {
	BillingID uuid.UUID
	BranchID  uuid.UUID
	StudentID uuid.UUID
	Title     string
	Amount    int64
	DueDate   time.Time
}

// NotificationHook: pengiriman (email/WA/push) ada di luar modul ini.
type NotificationHook interface {
	NotifyBillingCreated(ctx context.Context, n BillingNotice) error
	NotifyBillingOverdue(ctx context.Context, n BillingNotice) error
}

// LogNotifier hanya mencatat notice ke log; dipakai sampai kanal pengiriman tersedia.
type LogNotifier struct {
	Log logrus.FieldLogger
}

func NewLogNotifier(log logrus.FieldLogger) *LogNotifier {
	return &LogNotifier{Log: log.WithField("component", "billing_notifier")}
}

func (n *LogNotifier) NotifyBillingCreated(ctx context.Context, b BillingNotice) error {
	n.entry(b).Info("billing created")
	return nil
}

func (n *LogNotifier) NotifyBillingOverdue(ctx context.Context, b BillingNotice) error {
	n.entry(b).Info("billing overdue")
	return nil
}

func (n *LogNotifier) entry(b BillingNotice) *logrus.Entry {
	return n.Log.WithFields(logrus.Fields{
		"billing_id": b.BillingID.String(),
		"branch_id":  b.BranchID.String(),
		"student_id": b.StudentID.String(),
		"title":      b.Title,
		"amount":     b.Amount,
		"due_date":   b.DueDate.Format("2006-01-02"),
	})
}
