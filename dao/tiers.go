package dao

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/slothbuzz/tipbot/model"
)

// LevelForBalance resolves a balance against the tier table: the entry with
// the greatest min_balance <= balance wins. When no entry qualifies the
// zero-calls sentinel level is returned, not an error.
func (d *Dao) LevelForBalance(balance decimal.Decimal) (model.TippingLevel, error) {
	var level model.TippingLevel
	err := d.db.
		Where("min_balance <= ?", balance).
		Order("min_balance DESC").
		First(&level).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.TippingLevel{}, nil
	}
	if err != nil {
		return model.TippingLevel{}, err
	}
	return level, nil
}

// MaxLevel returns the entry with the highest threshold, used for unlimited
// senders.
func (d *Dao) MaxLevel() (model.TippingLevel, error) {
	var level model.TippingLevel
	err := d.db.Order("min_balance DESC").First(&level).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.TippingLevel{}, nil
	}
	if err != nil {
		return model.TippingLevel{}, err
	}
	return level, nil
}

// MaxCombinedTip returns the largest recipient+caller total any level can
// pay out. The fund gate compares the wallet balance against this.
func (d *Dao) MaxCombinedTip() (decimal.Decimal, error) {
	var result struct {
		MaxTip decimal.Decimal
	}
	err := d.db.Model(&model.TippingLevel{}).
		Select("MAX(tip_recipient + tip_caller) AS max_tip").
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return result.MaxTip, nil
}

// MinQualifyingBalance returns the smallest threshold that still grants
// calls, for use in reply texts.
func (d *Dao) MinQualifyingBalance() (decimal.Decimal, error) {
	var result struct {
		MinBalance decimal.Decimal
	}
	err := d.db.Model(&model.TippingLevel{}).
		Select("MIN(min_balance) AS min_balance").
		Where("calls > 0").
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return result.MinBalance, nil
}

// SeedDefaultLevels installs the sample tier table when none is configured.
func (d *Dao) SeedDefaultLevels() error {
	var count int64
	if err := d.db.Model(&model.TippingLevel{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	levels := []model.TippingLevel{
		{MinBalance: decimal.NewFromInt(0), Calls: 1, TipRecipient: decimal.NewFromInt(1), TipCaller: decimal.NewFromInt(1)},
		{MinBalance: decimal.NewFromInt(1), Calls: 2, TipRecipient: decimal.NewFromInt(1), TipCaller: decimal.NewFromInt(1)},
		{MinBalance: decimal.NewFromInt(10), Calls: 3, TipRecipient: decimal.NewFromInt(1), TipCaller: decimal.NewFromInt(1)},
		{MinBalance: decimal.NewFromInt(100), Calls: 4, TipRecipient: decimal.NewFromInt(1), TipCaller: decimal.NewFromInt(1)},
		{MinBalance: decimal.NewFromInt(500), Calls: 5, TipRecipient: decimal.NewFromInt(1), TipCaller: decimal.NewFromInt(1)},
	}
	log.Info("tier table empty, seeding sample levels")
	return d.db.Create(&levels).Error
}
