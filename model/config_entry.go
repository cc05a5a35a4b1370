package model

type ConfigEntry struct {
	Name  string `gorm:"primaryKey;type:varchar(64)"`
	Value string `gorm:"type:text"`
}

func (ConfigEntry) TableName() string {
	return "bot_config"
}
