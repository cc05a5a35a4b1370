package initdb

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	logging "github.com/ipfs/go-log/v2"
	"gorm.io/gorm"

	"github.com/slothbuzz/tipbot/config"
	"github.com/slothbuzz/tipbot/dao"
	"github.com/slothbuzz/tipbot/model"
)

var log = logging.Logger("initdb")

// EnsureSchema creates or migrates every table the bot uses. Safe to run on
// every start.
func EnsureSchema(db *gorm.DB) error {
	startTime := time.Now()
	defer func() {
		log.Infow("EnsureSchema", "duration", time.Since(startTime).String())
	}()

	return db.AutoMigrate(
		// 1. ledger and side tables
		&model.ActionRecord{},
		&model.VoteRecord{},
		&model.OptOutRecord{},
		&model.CollectionPost{},

		// 2. resumption
		&model.StreamCheckpoint{},

		// 3. configuration
		&model.ConfigEntry{},
		&model.TippingLevel{},
	)
}

// InitDatabase prepares a database for the bot: schema, sample tier table,
// configuration defaults and the warm redis cache.
func InitDatabase(ctx context.Context, db *gorm.DB, rds *redis.Client) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	d := dao.NewDao(ctx, db, rds)

	if err := d.SeedDefaultLevels(); err != nil {
		return err
	}

	defaulted, err := config.EnsureDefaults(d)
	if err != nil {
		return err
	}
	if defaulted > 0 {
		log.Warnf("%v configuration values were defaulted, review them before running the bot", defaulted)
	}

	return d.WarmProcessedCache()
}
