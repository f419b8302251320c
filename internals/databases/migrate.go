package database

import (
	"fmt"

	"gorm.io/gorm"

	auditModel "ibuc_backend/internals/features/finance/audit_logs/model"
	billingModel "ibuc_backend/internals/features/finance/billings/model"
	configModel "ibuc_backend/internals/features/finance/financial_configs/model"
	paymentModel "ibuc_backend/internals/features/finance/payments/model"
)

// Satu payment aktif (pending/failed) per billing.
const activePaymentIndexSQL = `CREATE UNIQUE INDEX IF NOT EXISTS uniq_payments_active_billing
	ON payments (payment_billing_id)
	WHERE payment_status IN ('pending', 'failed')`

// AutoMigrate membuat tabel finance + index parsial yang tidak bisa diekspresikan lewat tag gorm.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&billingModel.CohortMembership{},
		&billingModel.Billing{},
		&paymentModel.Payment{},
		&auditModel.AuditLog{},
		&configModel.FinancialConfig{},
	); err != nil {
		return fmt.Errorf("failed to migrate finance tables: %w", err)
	}
	if err := db.Exec(activePaymentIndexSQL).Error; err != nil {
		return fmt.Errorf("failed to create active payment index: %w", err)
	}
	return nil
}
