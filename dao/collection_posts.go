package dao

import (
	"errors"

	"gorm.io/gorm"

	"github.com/slothbuzz/tipbot/model"
)

// CollectionPostPermlink returns the permlink of the digest post for a date,
// with ok=false when none was created yet.
func (d *Dao) CollectionPostPermlink(date string) (string, bool, error) {
	var post model.CollectionPost
	err := d.db.Where("date = ?", date).Take(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return post.Permlink, true, nil
}

// SaveCollectionPost remembers the digest post created for a date.
func (d *Dao) SaveCollectionPost(date, permlink string) error {
	return d.db.Create(&model.CollectionPost{
		Date:     date,
		Permlink: permlink,
	}).Error
}
