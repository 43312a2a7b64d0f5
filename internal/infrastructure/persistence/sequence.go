package persistence

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/fms/backend/internal/domain/numbering"
	"github.com/fms/backend/internal/domain/resource"
)

// SequenceTable holds one counter row per (scope, prefix, period) bucket
const SequenceTable = "document_sequences"

const incrementSequenceSQL = `UPDATE ` + SequenceTable + `
SET last_value = last_value + 1, updated_at = ?
WHERE seq_scope = ? AND prefix = ? AND period = ?
RETURNING last_value`

const seedSequenceSQL = `INSERT INTO ` + SequenceTable + ` (seq_scope, prefix, period, last_value, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (seq_scope, prefix, period) DO NOTHING`

// nextSequence increments the bucket counter and returns the new value. It
// must run inside the transaction that inserts the record so that the
// counter row lock is held until the record is committed. A missing counter
// row is created first, seeded with the highest sequence already issued in
// the bucket.
func nextSequence(tx *gorm.DB, def *resource.Definition, b numbering.Bucket, now time.Time) (int64, error) {
	scope := def.Table

	seq, found, err := incrementSequence(tx, scope, b, now)
	if err != nil || found {
		return seq, err
	}

	seed, err := highestIssued(tx, def, b)
	if err != nil {
		return 0, err
	}
	if err := tx.Exec(seedSequenceSQL, scope, b.Prefix, b.Period, seed, now).Error; err != nil {
		return 0, fmt.Errorf("seed sequence %s: %w", b, err)
	}

	seq, found, err = incrementSequence(tx, scope, b, now)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, fmt.Errorf("sequence %s missing after seed", b)
	}
	return seq, nil
}

func incrementSequence(tx *gorm.DB, scope string, b numbering.Bucket, now time.Time) (int64, bool, error) {
	var seq int64
	res := tx.Raw(incrementSequenceSQL, now, scope, b.Prefix, b.Period).Scan(&seq)
	if res.Error != nil {
		return 0, false, fmt.Errorf("increment sequence %s: %w", b, res.Error)
	}
	return seq, res.RowsAffected > 0, nil
}

// highestIssued scans existing numbers in the bucket, including soft-deleted
// rows, so a counter created for a populated table never reissues a number.
func highestIssued(tx *gorm.DB, def *resource.Definition, b numbering.Bucket) (int64, error) {
	col := def.NumberColumn
	q := tx.Table(def.Table).
		Where(col+` LIKE ? ESCAPE '\'`, def.Numbering.LikePattern(b)).
		Order(fmt.Sprintf("LENGTH(%s) DESC, %s DESC", col, col)).
		Limit(20)
	for column, v := range def.Fixed {
		q = q.Where(column+" = ?", v)
	}

	var numbers []string
	if err := q.Pluck(col, &numbers).Error; err != nil {
		return 0, fmt.Errorf("scan issued numbers %s: %w", b, err)
	}

	var highest int64
	for _, n := range numbers {
		if seq, ok := def.Numbering.Sequence(b, n); ok && seq > highest {
			highest = seq
		}
	}
	return highest, nil
}

// isDuplicate reports a unique constraint violation. gorm translates driver
// errors to ErrDuplicatedKey; the message check covers drivers and wrapped
// errors it does not translate.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}
