package dao

import (
	"context"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("dao")

type Dao struct {
	ctx context.Context
	db  *gorm.DB
	rds *redis.Client
}

// NewDao wraps the database and the optional redis cache. Passing a nil
// redis client disables the fast path; every lookup goes to the database.
func NewDao(ctx context.Context, db *gorm.DB, rds *redis.Client) *Dao {
	return &Dao{
		ctx: ctx,
		db:  db,
		rds: rds,
	}
}

func (d *Dao) DB() *gorm.DB {
	return d.db
}
