package dao

import (
	"github.com/slothbuzz/tipbot/model"
)

// IsProcessed reports whether a record already exists for the triggering
// message. This is the idempotency boundary: a hit means the call was fully
// handled in an earlier run.
func (d *Dao) IsProcessed(author, permlink string) (bool, error) {
	if hit, ok := d.cacheHasProcessed(author, permlink); ok {
		return hit, nil
	}

	var count int64
	err := d.db.Model(&model.ActionRecord{}).
		Where("invoker = ? AND permlink = ?", author, permlink).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		d.cacheMarkProcessed(author, permlink)
	}
	return count > 0, nil
}

// Record appends one action record. Records are never updated in place;
// writing the same (invoker, permlink) twice is a pipeline bug upstream.
func (d *Dao) Record(rec *model.ActionRecord) error {
	if err := d.db.Create(rec).Error; err != nil {
		return err
	}
	d.cacheMarkProcessed(rec.Invoker, rec.Permlink)
	return nil
}

// CountByOutcome counts the records of one date. The outcome may be a stored
// code, model.OutcomeTotal for every record of the date, or
// model.OutcomeAnyFailure for every record that is not a success.
func (d *Dao) CountByOutcome(date string, outcome int) (int64, error) {
	var count int64
	q := d.db.Model(&model.ActionRecord{}).Where("date = ?", date)

	switch outcome {
	case model.OutcomeTotal:
	case model.OutcomeAnyFailure:
		q = q.Where("outcome <> ?", model.OutcomeSuccess)
	default:
		q = q.Where("outcome = ?", outcome)
	}

	err := q.Count(&count).Error
	return count, err
}

// CountSuccessesForUser counts the successful calls a user made on a date.
func (d *Dao) CountSuccessesForUser(author, date string) (int64, error) {
	var count int64
	err := d.db.Model(&model.ActionRecord{}).
		Where("invoker = ? AND date = ? AND outcome = ?", author, date, model.OutcomeSuccess).
		Count(&count).Error
	return count, err
}
