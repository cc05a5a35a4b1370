package dao

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/slothbuzz/tipbot/model"
)

// GetSetting reads one name/value pair from the config table. ok is false
// when the name has never been written.
func (d *Dao) GetSetting(name string) (string, bool, error) {
	var entry model.ConfigEntry
	err := d.db.Where("name = ?", strings.ToUpper(name)).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

// SetSetting writes one name/value pair, creating or overwriting it.
func (d *Dao) SetSetting(name, value string) error {
	return d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&model.ConfigEntry{
		Name:  strings.ToUpper(name),
		Value: value,
	}).Error
}
