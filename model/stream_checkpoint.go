package model

// StreamCheckpoint holds the last fully processed block number.
// A value <= 0 means start from the live head without backlog replay.
type StreamCheckpoint struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement:true"`
	BlockNum int64  `gorm:"column:block_num"`
}

func (StreamCheckpoint) TableName() string {
	return "stream_checkpoint"
}
