package dao

import (
	"github.com/slothbuzz/tipbot/model"
)

// AllowedToMention reports whether a user may be @-mentioned in bot output.
// Absence of an opt-out row is the default and means mentions are fine.
func (d *Dao) AllowedToMention(user string) (bool, error) {
	var count int64
	err := d.db.Model(&model.OptOutRecord{}).
		Where("user = ?", user).
		Count(&count).Error
	return count == 0, err
}

// DisallowMentions stores the user's opt-out. Adding an already opted-out
// user is a no-op.
func (d *Dao) DisallowMentions(user, date, permlink string) error {
	allowed, err := d.AllowedToMention(user)
	if err != nil {
		return err
	}
	if !allowed {
		return nil
	}
	return d.db.Create(&model.OptOutRecord{
		Date:     date,
		User:     user,
		Permlink: permlink,
	}).Error
}

// AllowMentions removes the user's opt-out. Removing an absent user is a
// no-op.
func (d *Dao) AllowMentions(user string) error {
	return d.db.Where("user = ?", user).Delete(&model.OptOutRecord{}).Error
}
