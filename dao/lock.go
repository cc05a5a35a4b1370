package dao

import (
	"gorm.io/gorm"

	"github.com/slothbuzz/tipbot/model"
)

// GetDatabaseLock claims the database for this process by creating the pid
// table. A second bot instance against the same database fails here.
func GetDatabaseLock(db *gorm.DB) error {
	err := db.Migrator().CreateTable(&model.PidFile{})
	if err != nil {
		log.Errorf("GetDatabaseLock failed: %v", err)
	}
	return err
}

func ReleaseDatabaseLock(db *gorm.DB) error {
	err := db.Migrator().DropTable(&model.PidFile{})
	log.Infof("release database lock result: %v", err)
	return err
}
