// internals/features/attendance/record/model/time_record_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// TimeRecordModel: satu baris per (user_email, date).
// Pasangan itu natural key; uuid hanya surrogate.
//
// Representasi kanonik "belum ada" = NULL (pointer nil). Semua jalur tulis
// menormalkan ke sini; tidak ada beda antara field absen dan null eksplisit.
type TimeRecordModel struct {
	// PK
	TimeRecordID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:time_record_id" json:"time_record_id"`

	// Natural key
	TimeRecordUserEmail string `gorm:"type:varchar(160);not null;column:time_record_user_email;uniqueIndex:uq_time_record_user_date,priority:1;index:idx_time_record_user" json:"time_record_user_email"`
	TimeRecordDate      string `gorm:"type:char(10);not null;column:time_record_date;uniqueIndex:uq_time_record_user_date,priority:2;index:idx_time_record_date" json:"time_record_date"` // YYYY-MM-DD lokal

	// Jam masuk / pulang (nullable)
	TimeRecordCheckIn  *time.Time `gorm:"column:time_record_check_in" json:"time_record_check_in,omitempty"`
	TimeRecordCheckOut *time.Time `gorm:"column:time_record_check_out" json:"time_record_check_out,omitempty"`

	// Siapa operator yang mencatat (audit)
	TimeRecordCheckInRecorderUID  *uuid.UUID `gorm:"type:uuid;column:time_record_check_in_recorder_uid" json:"time_record_check_in_recorder_uid,omitempty"`
	TimeRecordCheckOutRecorderUID *uuid.UUID `gorm:"type:uuid;column:time_record_check_out_recorder_uid" json:"time_record_check_out_recorder_uid,omitempty"`

	// Potongan menit (istirahat dsb) + catatan alasan
	TimeRecordDeductionMinutes int     `gorm:"not null;default:0;column:time_record_deduction_minutes;check:time_record_deduction_minutes >= 0" json:"time_record_deduction_minutes"`
	TimeRecordNotes            *string `gorm:"type:text;column:time_record_notes" json:"time_record_notes,omitempty"`

	// Timestamps
	TimeRecordCreatedAt time.Time `gorm:"column:time_record_created_at;autoCreateTime" json:"time_record_created_at"`
	TimeRecordUpdatedAt time.Time `gorm:"column:time_record_updated_at;autoUpdateTime" json:"time_record_updated_at"`
}

func (TimeRecordModel) TableName() string {
	return "time_records"
}

// WorkedMinutes: durasi kerja efektif = (checkOut - checkIn) - potongan.
// 0 jika belum lengkap atau hasilnya negatif.
func (m *TimeRecordModel) WorkedMinutes() int {
	if m == nil || m.TimeRecordCheckIn == nil || m.TimeRecordCheckOut == nil {
		return 0
	}
	mins := int(m.TimeRecordCheckOut.Sub(*m.TimeRecordCheckIn).Minutes())
	mins -= m.TimeRecordDeductionMinutes
	if mins < 0 {
		return 0
	}
	return mins
}

// IsComplete: sudah ada checkIn dan checkOut
func (m *TimeRecordModel) IsComplete() bool {
	return m != nil && m.TimeRecordCheckIn != nil && m.TimeRecordCheckOut != nil
}

// IsPending: sudah masuk, belum pulang
func (m *TimeRecordModel) IsPending() bool {
	return m != nil && m.TimeRecordCheckIn != nil && m.TimeRecordCheckOut == nil
}
