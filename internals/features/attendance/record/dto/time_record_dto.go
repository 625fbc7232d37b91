// internals/features/attendance/record/dto/time_record_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"absenku_backend/internals/features/attendance/record/model"
)

// ========== Requests ==========

// ScanRequest: identifikasi user hasil scan QR / keypad.
// Isi salah satu: email, atau pasangan class_id+seat_no.
type ScanRequest struct {
	UserEmail string `json:"user_email" validate:"omitempty,email"`
	ClassID   string `json:"class_id" validate:"omitempty,min=1,max=8"`
	SeatNo    string `json:"seat_no" validate:"omitempty,min=1,max=4"`
}

type ConfirmRequest struct {
	ScanToken uuid.UUID `json:"scan_token" validate:"required"`
}

type CancelRequest struct {
	ScanToken uuid.UUID `json:"scan_token" validate:"required"`
}

// ManualEditRequest: koreksi jam manual "HH:MM" (boleh retroaktif).
// Field nil = tidak diubah.
type ManualEditRequest struct {
	UserEmail string  `json:"user_email" validate:"required,email"`
	Date      string  `json:"date" validate:"required,len=10"`
	CheckIn   *string `json:"check_in" validate:"omitempty"`
	CheckOut  *string `json:"check_out" validate:"omitempty"`
}

// DeductionRequest: set potongan menit + catatan alasan.
type DeductionRequest struct {
	UserEmail        string  `json:"user_email" validate:"required,email"`
	Date             string  `json:"date" validate:"required,len=10"`
	DeductionMinutes int     `json:"deduction_minutes" validate:"min=0"`
	Notes            *string `json:"notes" validate:"omitempty,max=500"`
}

// ========== Responses ==========

type TimeRecordResponse struct {
	UserEmail        string     `json:"user_email"`
	Date             string     `json:"date"`
	CheckIn          *time.Time `json:"check_in"`
	CheckOut         *time.Time `json:"check_out"`
	DeductionMinutes int        `json:"deduction_minutes"`
	Notes            *string    `json:"notes,omitempty"`
	WorkedMinutes    int        `json:"worked_minutes"`
}

func FromModel(m *model.TimeRecordModel) *TimeRecordResponse {
	if m == nil {
		return nil
	}
	return &TimeRecordResponse{
		UserEmail:        m.TimeRecordUserEmail,
		Date:             m.TimeRecordDate,
		CheckIn:          m.TimeRecordCheckIn,
		CheckOut:         m.TimeRecordCheckOut,
		DeductionMinutes: m.TimeRecordDeductionMinutes,
		Notes:            m.TimeRecordNotes,
		WorkedMinutes:    m.WorkedMinutes(),
	}
}

func FromModels(ms []model.TimeRecordModel) []TimeRecordResponse {
	out := make([]TimeRecordResponse, 0, len(ms))
	for i := range ms {
		out = append(out, *FromModel(&ms[i]))
	}
	return out
}

// ScanResponse: hasil keputusan untuk dialog konfirmasi.
type ScanResponse struct {
	Action    string              `json:"action"`
	ScanToken *uuid.UUID          `json:"scan_token,omitempty"` // nil saat already_complete
	UserName  string              `json:"user_name"`
	UserEmail string              `json:"user_email"`
	ClassID   string              `json:"class_id"`
	SeatNo    string              `json:"seat_no"`
	Record    *TimeRecordResponse `json:"record"` // echo record hari ini (bisa nil)
}
