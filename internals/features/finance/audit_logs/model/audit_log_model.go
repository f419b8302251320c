// file: internals/features/finance/audit_logs/model/audit_log_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	EntityPayment         = "PAYMENT"
	EntityFinancialConfig = "FINANCIAL_CONFIG"
)

// AuditLog: append-only. Tidak ada update/delete dari aplikasi.
// previous_state NULL untuk aksi pertama (INITIATE).
type AuditLog struct {
	AuditLogID            int64             `json:"audit_log_id" gorm:"column:audit_log_id;primaryKey;autoIncrement"`
	AuditLogEntityType    string            `json:"audit_log_entity_type" gorm:"column:audit_log_entity_type;type:varchar(32);not null;index:idx_audit_entity,priority:1"`
	AuditLogEntityID      uuid.UUID         `json:"audit_log_entity_id" gorm:"column:audit_log_entity_id;type:uuid;not null;index:idx_audit_entity,priority:2"`
	AuditLogAction        string            `json:"audit_log_action" gorm:"column:audit_log_action;type:varchar(32);not null"`
	AuditLogPreviousState datatypes.JSON    `json:"audit_log_previous_state" gorm:"column:audit_log_previous_state"`
	AuditLogNewState      datatypes.JSON    `json:"audit_log_new_state" gorm:"column:audit_log_new_state;not null"`
	AuditLogActorID       *uuid.UUID        `json:"audit_log_actor_id" gorm:"column:audit_log_actor_id;type:uuid"`
	AuditLogMetadata      datatypes.JSONMap `json:"audit_log_metadata" gorm:"column:audit_log_metadata"`
	AuditLogCreatedAt     time.Time         `json:"audit_log_created_at" gorm:"column:audit_log_created_at;not null;autoCreateTime;index:idx_audit_entity,priority:3"`
}

func (AuditLog) TableName() string { return "financial_audit_logs" }
