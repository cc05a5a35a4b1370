package dao

import (
	"time"

	"github.com/slothbuzz/tipbot/model"
)

const (
	CacheTimeout time.Duration = 3600 * time.Second

	processedSetKey = "tip_processed"
)

func processedMember(author, permlink string) string {
	return author + "/" + permlink
}

// cacheHasProcessed answers from redis only. The second return value is
// false when the cache cannot answer and the database must be consulted.
func (d *Dao) cacheHasProcessed(author, permlink string) (bool, bool) {
	if d.rds == nil {
		return false, false
	}
	ok, err := d.rds.SIsMember(d.ctx, processedSetKey, processedMember(author, permlink)).Result()
	if err != nil {
		log.Warnf("redis processed lookup failed: %v", err)
		return false, false
	}
	// Absence in the set proves nothing, the set is only a positive cache.
	if !ok {
		return false, false
	}
	return true, true
}

func (d *Dao) cacheMarkProcessed(author, permlink string) {
	if d.rds == nil {
		return
	}
	if err := d.rds.SAdd(d.ctx, processedSetKey, processedMember(author, permlink)).Err(); err != nil {
		log.Warnf("redis processed mark failed: %v", err)
	}
}

// WarmProcessedCache fills the redis processed set from the ledger. Run once
// at startup; the set only grows afterwards.
func (d *Dao) WarmProcessedCache() error {
	if d.rds == nil {
		return nil
	}

	var rows []model.ActionRecord
	if err := d.db.Select([]string{"invoker", "permlink"}).Find(&rows).Error; err != nil {
		return err
	}

	members := make([]interface{}, 0, len(rows))
	for _, r := range rows {
		members = append(members, processedMember(r.Invoker, r.Permlink))
	}
	if len(members) == 0 {
		return nil
	}
	if err := d.rds.SAdd(d.ctx, processedSetKey, members...).Err(); err != nil {
		return err
	}
	log.Infof("warmed processed cache with %v entries", len(members))
	return nil
}
