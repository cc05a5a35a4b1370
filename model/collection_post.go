package model

// CollectionPost maps a date to the permlink of that day's digest post.
type CollectionPost struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement:true"`
	Date     string `gorm:"uniqueIndex;type:varchar(10)"`
	Permlink string `gorm:"type:varchar(512)"`
}

func (CollectionPost) TableName() string {
	return "tip_collection_posts"
}
