// file: internals/features/finance/audit_logs/service/audit_trail_service.go
package service

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"ibuc_backend/internals/features/finance/audit_logs/model"
	"ibuc_backend/internals/helpers/apperror"
)

// RecordInput: satu transisi entitas. PreviousState nil untuk transisi pertama.
type RecordInput struct {
	EntityType    string
	EntityID      uuid.UUID
	Action        string
	PreviousState any
	NewState      any
	ActorID       *uuid.UUID
	Metadata      map[string]any
}

// Recorder dipakai lifecycle service; Trail adalah implementasi berbasis gorm.
type Recorder interface {
	Record(ctx context.Context, in RecordInput)
}

type Trail struct {
	DB  *gorm.DB
	Log logrus.FieldLogger
}

func NewTrail(db *gorm.DB, log logrus.FieldLogger) *Trail {
	return &Trail{DB: db, Log: log.WithField("component", "audit_trail")}
}

// Append menulis satu entry dan mengembalikan error apa adanya.
func (t *Trail) Append(ctx context.Context, in RecordInput) (*model.AuditLog, error) {
	entry, err := buildEntry(in)
	if err != nil {
		return nil, err
	}
	if err := t.DB.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to insert audit log: %w", err)
	}
	return entry, nil
}

// Record bersifat fail-open: kegagalan hanya dilaporkan ke log operasional,
// transisi bisnis yang sudah commit tidak ikut gagal.
func (t *Trail) Record(ctx context.Context, in RecordInput) {
	// entry tetap ditulis walau request sudah selesai/cancel
	ctx = context.WithoutCancel(ctx)
	if _, err := t.Append(ctx, in); err != nil {
		t.Log.WithError(err).WithFields(logrus.Fields{
			"entity_type": in.EntityType,
			"entity_id":   in.EntityID.String(),
			"action":      in.Action,
		}).Error("audit log write failed")
	}
}

// ListFor: riwayat entitas, terlama dulu.
func (t *Trail) ListFor(ctx context.Context, entityType string, entityID uuid.UUID) ([]model.AuditLog, error) {
	var rows []model.AuditLog
	err := t.DB.WithContext(ctx).
		Where("audit_log_entity_type = ? AND audit_log_entity_id = ?", entityType, entityID).
		Order("audit_log_created_at ASC").
		Order("audit_log_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, apperror.Dependency(err, "failed to load audit logs")
	}
	return rows, nil
}

func buildEntry(in RecordInput) (*model.AuditLog, error) {
	if in.EntityType == "" || in.EntityID == uuid.Nil || in.Action == "" {
		return nil, fmt.Errorf("audit entry requires entity type, entity id and action")
	}
	if in.NewState == nil {
		return nil, fmt.Errorf("audit entry requires a new state")
	}

	newState, err := snapshot(in.NewState)
	if err != nil {
		return nil, err
	}
	var prevState datatypes.JSON
	if in.PreviousState != nil {
		if prevState, err = snapshot(in.PreviousState); err != nil {
			return nil, err
		}
	}

	meta := datatypes.JSONMap{}
	for k, v := range in.Metadata {
		meta[k] = v
	}

	return &model.AuditLog{
		AuditLogEntityType:    in.EntityType,
		AuditLogEntityID:      in.EntityID,
		AuditLogAction:        in.Action,
		AuditLogPreviousState: prevState,
		AuditLogNewState:      newState,
		AuditLogActorID:       in.ActorID,
		AuditLogMetadata:      meta,
	}, nil
}

func snapshot(v any) (datatypes.JSON, error) {
	b, err := sonic.ConfigStd.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode audit snapshot: %w", err)
	}
	return datatypes.JSON(b), nil
}
