package model

import "github.com/shopspring/decimal"

// TippingLevel is one step of the balance tier table. Lookup resolves a
// balance to the entry with the greatest MinBalance <= balance.
type TippingLevel struct {
	ID uint64 `gorm:"primaryKey;autoIncrement:true"`

	MinBalance   decimal.Decimal `gorm:"column:min_balance;type:DECIMAL(18,8)"`
	Calls        int
	TipRecipient decimal.Decimal `gorm:"type:DECIMAL(18,8)"`
	TipCaller    decimal.Decimal `gorm:"type:DECIMAL(18,8)"`
}

func (TippingLevel) TableName() string {
	return "tipping_levels"
}
