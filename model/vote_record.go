package model

type VoteRecord struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement:true"`
	Date     string `gorm:"type:varchar(10)"`
	Permlink string `gorm:"index;type:varchar(512)"`
	Weight   int
}

func (VoteRecord) TableName() string {
	return "tip_votes"
}
