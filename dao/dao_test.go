package dao

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/slothbuzz/tipbot/model"
)

func testDao(t *testing.T) *Dao {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.ActionRecord{},
		&model.VoteRecord{},
		&model.OptOutRecord{},
		&model.CollectionPost{},
		&model.StreamCheckpoint{},
		&model.ConfigEntry{},
		&model.TippingLevel{},
	))

	return NewDao(context.Background(), db, nil)
}
