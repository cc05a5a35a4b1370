package dao

import (
	"github.com/slothbuzz/tipbot/model"
)

// HasVoted reports whether a vote was already attempted for the permlink.
func (d *Dao) HasVoted(permlink string) (bool, error) {
	var count int64
	err := d.db.Model(&model.VoteRecord{}).
		Where("permlink = ?", permlink).
		Count(&count).Error
	return count > 0, err
}

// RecordVote stores a cast vote so it is never attempted a second time.
func (d *Dao) RecordVote(date, permlink string, weight int) error {
	return d.db.Create(&model.VoteRecord{
		Date:     date,
		Permlink: permlink,
		Weight:   weight,
	}).Error
}
