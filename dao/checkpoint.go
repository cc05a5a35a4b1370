package dao

import (
	"errors"

	"gorm.io/gorm"

	"github.com/slothbuzz/tipbot/model"
)

// LoadCheckpoint returns the last fully processed block number, or a value
// <= 0 when the bot has never run and should start from the live head.
func (d *Dao) LoadCheckpoint() (int64, error) {
	var cp model.StreamCheckpoint
	err := d.db.Take(&cp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return -1, nil
	}
	if err != nil {
		return 0, err
	}
	return cp.BlockNum, nil
}

// SaveCheckpoint persists the newest processed block number. Writing the
// same value twice is harmless.
func (d *Dao) SaveCheckpoint(blockNum int64) error {
	res := d.db.Model(&model.StreamCheckpoint{}).
		Where("1 = 1").
		Update("block_num", blockNum)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return d.db.Create(&model.StreamCheckpoint{BlockNum: blockNum}).Error
	}
	return nil
}
