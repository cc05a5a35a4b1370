package model

// PidFile exists only while a bot process owns the database. Creating the
// table acts as the lock, dropping it releases the lock.
type PidFile struct {
	ID   uint64 `gorm:"primaryKey;autoIncrement:true"`
	Info string
}

func (PidFile) TableName() string {
	return "pid_file"
}
