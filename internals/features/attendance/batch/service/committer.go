// internals/features/attendance/batch/service/committer.go
package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"

	batchModel "absenku_backend/internals/features/attendance/batch/model"
	recordService "absenku_backend/internals/features/attendance/record/service"
)

// Committer: satu commit batch, semua-atau-tidak-sama-sekali.
type Committer interface {
	Commit(ctx context.Context, operatorUID uuid.UUID, writes []recordService.MergeWrite, entries CachedActions) error
}

// GormCommitter: semua merge-write + baris audit dalam SATU transaksi DB.
type GormCommitter struct {
	DB *gorm.DB
}

func NewGormCommitter(db *gorm.DB) *GormCommitter {
	return &GormCommitter{DB: db}
}

func (g *GormCommitter) Commit(ctx context.Context, operatorUID uuid.UUID, writes []recordService.MergeWrite, entries CachedActions) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}

	err = g.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, w := range writes {
			if err := recordService.MergeSetTx(tx, w); err != nil {
				return err
			}
		}
		return tx.Create(&batchModel.BatchSyncLogModel{
			BatchSyncLogOperatorUID: operatorUID,
			BatchSyncLogUserCount:   len(writes),
			BatchSyncLogEntries:     raw,
		}).Error
	})
	if err != nil {
		return err
	}

	// push ke watcher direktori; best effort
	_ = g.DB.WithContext(ctx).
		Exec("SELECT pg_notify('time_records_changed', 'batch')").Error
	return nil
}
