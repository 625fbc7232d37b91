// internals/features/attendance/record/service/reconcile.go
//
// Engine rekonsiliasi absensi: tentukan aksi yang sah untuk satu user pada
// satu hari, lalu lakukan merge-write idempoten berkunci (email, date).
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"absenku_backend/internals/features/attendance/record/model"
)

type Action string

const (
	ActionCheckIn         Action = "check_in"
	ActionCheckOut        Action = "check_out"
	ActionAlreadyComplete Action = "already_complete"
)

var (
	ErrAlreadyCheckedIn  = errors.New("sudah tercatat masuk hari ini")
	ErrAlreadyCheckedOut = errors.New("sudah tercatat pulang hari ini")
	ErrNoCheckIn         = errors.New("belum ada catatan masuk, tidak bisa pulang")
	ErrBrokenRecord      = errors.New("record hari ini rusak (checkOut tanpa checkIn)")
)

// Nama kolom yang menjadi skema de-facto; dipertahankan demi kompatibilitas
// dengan store yang sudah jalan.
const (
	ColCheckIn             = "time_record_check_in"
	ColCheckOut            = "time_record_check_out"
	ColCheckInRecorderUID  = "time_record_check_in_recorder_uid"
	ColCheckOutRecorderUID = "time_record_check_out_recorder_uid"
	ColDeductionMinutes    = "time_record_deduction_minutes"
	ColNotes               = "time_record_notes"
)

type Engine struct {
	Store TimeRecordStore
}

func NewEngine(store TimeRecordStore) *Engine {
	return &Engine{Store: store}
}

// Decide: tangga keputusan §fast-path.
//  1. belum ada record      → check_in
//  2. masuk, belum pulang   → check_out
//  3. sudah lengkap         → already_complete (terminal untuk hari itu;
//     perubahan lebih lanjut lewat jalur edit eksplisit)
//
// Record dengan checkOut tanpa checkIn dianggap data rusak, bukan tawaran
// check-in baru.
func Decide(rec *model.TimeRecordModel) (Action, error) {
	switch {
	case rec == nil:
		return ActionCheckIn, nil
	case rec.TimeRecordCheckIn == nil && rec.TimeRecordCheckOut != nil:
		return "", ErrBrokenRecord
	case rec.IsPending():
		return ActionCheckOut, nil
	default:
		return ActionAlreadyComplete, nil
	}
}

// DecideFor: baca record hari itu dari store lalu Decide.
func (e *Engine) DecideFor(ctx context.Context, userEmail, date string) (Action, *model.TimeRecordModel, error) {
	rec, err := e.Store.Get(ctx, userEmail, date)
	if err != nil {
		return "", nil, err
	}
	action, err := Decide(rec)
	if err != nil {
		return "", rec, err
	}
	return action, rec, nil
}

// CheckIn: merge-write yang HANYA menyentuh checkIn + recorder-nya, jadi
// checkOut lama (kalau entah bagaimana sudah ada) tidak pernah tertimpa.
// Check-in ganda ditolak sebagai transisi ilegal, bukan merge diam-diam.
func (e *Engine) CheckIn(ctx context.Context, userEmail, date string, now time.Time, recorderUID uuid.UUID) error {
	rec, err := e.Store.Get(ctx, userEmail, date)
	if err != nil {
		return err
	}
	if rec != nil && rec.TimeRecordCheckIn != nil {
		return ErrAlreadyCheckedIn
	}
	return e.Store.MergeSet(ctx, MergeWrite{
		UserEmail: userEmail,
		Date:      date,
		Fields: map[string]any{
			ColCheckIn:            now,
			ColCheckInRecorderUID: recorderUID,
		},
	})
}

// CheckOut: wajib sudah ada checkIn; tanpa itu error, bukan no-op.
func (e *Engine) CheckOut(ctx context.Context, userEmail, date string, now time.Time, recorderUID uuid.UUID) error {
	rec, err := e.Store.Get(ctx, userEmail, date)
	if err != nil {
		return err
	}
	if rec == nil || rec.TimeRecordCheckIn == nil {
		return ErrNoCheckIn
	}
	if rec.TimeRecordCheckOut != nil {
		return ErrAlreadyCheckedOut
	}
	return e.Store.Update(ctx, MergeWrite{
		UserEmail: userEmail,
		Date:      date,
		Fields: map[string]any{
			ColCheckOut:            now,
			ColCheckOutRecorderUID: recorderUID,
		},
	})
}

// Apply: jalankan aksi hasil Decide (dipakai handler confirm).
func (e *Engine) Apply(ctx context.Context, action Action, userEmail, date string, now time.Time, recorderUID uuid.UUID) error {
	switch action {
	case ActionCheckIn:
		return e.CheckIn(ctx, userEmail, date, now, recorderUID)
	case ActionCheckOut:
		return e.CheckOut(ctx, userEmail, date, now, recorderUID)
	case ActionAlreadyComplete:
		return ErrAlreadyCheckedOut
	default:
		return errors.New("aksi tidak dikenal: " + string(action))
	}
}
