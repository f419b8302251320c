package service

import (
	"fmt"
	"reflect"

	"github.com/bytedance/sonic"
	"gorm.io/datatypes"

	"ibuc_backend/internals/features/finance/audit_logs/model"
)

// VerifyChain memastikan riwayat satu entitas bisa direkonstruksi:
// entry pertama tanpa previous_state, dan new_state[k] == previous_state[k+1].
// Perbandingan dilakukan secara semantik (jsonb bisa mengubah urutan key).
func VerifyChain(entries []model.AuditLog) error {
	for i := range entries {
		if i == 0 {
			if len(entries[0].AuditLogPreviousState) != 0 {
				return fmt.Errorf("first entry %d has a previous state", entries[0].AuditLogID)
			}
			continue
		}
		same, err := sameJSON(entries[i-1].AuditLogNewState, entries[i].AuditLogPreviousState)
		if err != nil {
			return fmt.Errorf("entry %d: %w", entries[i].AuditLogID, err)
		}
		if !same {
			return fmt.Errorf("chain broken between entry %d and %d", entries[i-1].AuditLogID, entries[i].AuditLogID)
		}
	}
	return nil
}

func sameJSON(a, b datatypes.JSON) (bool, error) {
	if len(a) == 0 || len(b) == 0 {
		return len(a) == len(b), nil
	}
	var va, vb any
	if err := sonic.Unmarshal(a, &va); err != nil {
		return false, fmt.Errorf("decode snapshot: %w", err)
	}
	if err := sonic.Unmarshal(b, &vb); err != nil {
		return false, fmt.Errorf("decode snapshot: %w", err)
	}
	return reflect.DeepEqual(va, vb), nil
}
