// internals/features/attendance/batch/model/batch_sync_log_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// BatchSyncLogModel: jejak audit satu commit batch (siapa, berapa user,
// entry apa saja). Entries = salinan JSON cache yang di-commit.
type BatchSyncLogModel struct {
	BatchSyncLogID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:batch_sync_log_id" json:"batch_sync_log_id"`

	BatchSyncLogOperatorUID uuid.UUID      `gorm:"type:uuid;not null;column:batch_sync_log_operator_uid;index" json:"batch_sync_log_operator_uid"`
	BatchSyncLogUserCount   int            `gorm:"not null;column:batch_sync_log_user_count" json:"batch_sync_log_user_count"`
	BatchSyncLogEntries     datatypes.JSON `gorm:"column:batch_sync_log_entries" json:"batch_sync_log_entries"`

	BatchSyncLogCommittedAt time.Time `gorm:"column:batch_sync_log_committed_at;autoCreateTime" json:"batch_sync_log_committed_at"`
}

func (BatchSyncLogModel) TableName() string {
	return "batch_sync_logs"
}
