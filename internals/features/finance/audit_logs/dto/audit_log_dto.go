package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	model "ibuc_backend/internals/features/finance/audit_logs/model"
)

type AuditLogResponse struct {
	AuditLogID            int64           `json:"audit_log_id"`
	AuditLogEntityType    string          `json:"audit_log_entity_type"`
	AuditLogEntityID      uuid.UUID       `json:"audit_log_entity_id"`
	AuditLogAction        string          `json:"audit_log_action"`
	AuditLogPreviousState json.RawMessage `json:"audit_log_previous_state"`
	AuditLogNewState      json.RawMessage `json:"audit_log_new_state"`
	AuditLogActorID       *uuid.UUID      `json:"audit_log_actor_id,omitempty"`
	AuditLogMetadata      map[string]any  `json:"audit_log_metadata"`
	AuditLogCreatedAt     time.Time       `json:"audit_log_created_at"`
}

func FromModel(m *model.AuditLog) AuditLogResponse {
	prev := json.RawMessage("null")
	if len(m.AuditLogPreviousState) > 0 {
		prev = json.RawMessage(m.AuditLogPreviousState)
	}
	meta := map[string]any(m.AuditLogMetadata)
	if meta == nil {
		meta = map[string]any{}
	}
	return AuditLogResponse{
		AuditLogID:            m.AuditLogID,
		AuditLogEntityType:    m.AuditLogEntityType,
		AuditLogEntityID:      m.AuditLogEntityID,
		AuditLogAction:        m.AuditLogAction,
		AuditLogPreviousState: prev,
		AuditLogNewState:      json.RawMessage(m.AuditLogNewState),
		AuditLogActorID:       m.AuditLogActorID,
		AuditLogMetadata:      meta,
		AuditLogCreatedAt:     m.AuditLogCreatedAt,
	}
}

func FromModels(rows []model.AuditLog) []AuditLogResponse {
	out := make([]AuditLogResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
