package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Slot konstan: unique index di kolom ini menjamin maksimal satu baris.
const SingletonSlot = 1

// FinancialConfig: tujuan pembayaran aktif (mis. kunci transfer) yang ditampilkan ke wali murid.
type FinancialConfig struct {
	FinancialConfigID   uuid.UUID `json:"financial_config_id" gorm:"column:financial_config_id;type:uuid;primaryKey"`
	FinancialConfigSlot int       `json:"-" gorm:"column:financial_config_slot;not null;default:1;uniqueIndex:uniq_financial_configs_slot"`

	FinancialConfigPaymentKey      string  `json:"financial_config_payment_key" gorm:"column:financial_config_payment_key;type:varchar(255);not null"`
	FinancialConfigKeyType         string  `json:"financial_config_key_type" gorm:"column:financial_config_key_type;type:varchar(32);not null"`
	FinancialConfigBeneficiaryName *string `json:"financial_config_beneficiary_name,omitempty" gorm:"column:financial_config_beneficiary_name;type:varchar(160)"`
	FinancialConfigBeneficiaryCity *string `json:"financial_config_beneficiary_city,omitempty" gorm:"column:financial_config_beneficiary_city;type:varchar(120)"`

	FinancialConfigCreatedAt time.Time `json:"financial_config_created_at" gorm:"column:financial_config_created_at;not null;autoCreateTime"`
	FinancialConfigUpdatedAt time.Time `json:"financial_config_updated_at" gorm:"column:financial_config_updated_at;not null;autoUpdateTime"`
}

func (FinancialConfig) TableName() string { return "financial_configs" }

func (m *FinancialConfig) BeforeCreate(tx *gorm.DB) error {
	if m.FinancialConfigID == uuid.Nil {
		m.FinancialConfigID = uuid.New()
	}
	m.FinancialConfigSlot = SingletonSlot
	return nil
}
