package model

// OptOutRecord marks a user who asked not to be @-mentioned in bot output.
type OptOutRecord struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement:true"`
	Date     string `gorm:"type:varchar(10)"`
	User     string `gorm:"index;type:varchar(255)"`
	Permlink string `gorm:"type:varchar(512)"`
}

func (OptOutRecord) TableName() string {
	return "tip_no_mention"
}
