package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"absenku_backend/internals/features/attendance/record/model"
)

// memStore: TimeRecordStore in-memory untuk test engine (tanpa DB).
// Mencatat setiap write supaya test bisa memastikan field mana yang disentuh.
type memStore struct {
	recs   map[string]*model.TimeRecordModel
	writes []MergeWrite

	getErr   error
	writeErr error
}

func newMemStore() *memStore {
	return &memStore{recs: map[string]*model.TimeRecordModel{}}
}

func key(email, date string) string { return email + "|" + date }

func (s *memStore) Get(_ context.Context, userEmail, date string) (*model.TimeRecordModel, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	rec, ok := s.recs[key(userEmail, date)]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (s *memStore) MergeSet(_ context.Context, w MergeWrite) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	rec, ok := s.recs[key(w.UserEmail, w.Date)]
	if !ok {
		rec = &model.TimeRecordModel{
			TimeRecordID:        uuid.New(),
			TimeRecordUserEmail: w.UserEmail,
			TimeRecordDate:      w.Date,
		}
		s.recs[key(w.UserEmail, w.Date)] = rec
	}
	applyFields(rec, w.Fields)
	s.writes = append(s.writes, w)
	return nil
}

func (s *memStore) Update(_ context.Context, w MergeWrite) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	rec, ok := s.recs[key(w.UserEmail, w.Date)]
	if !ok {
		return ErrRecordMissing
	}
	applyFields(rec, w.Fields)
	s.writes = append(s.writes, w)
	return nil
}

// applyFields: semantik merge field-level — hanya kolom pada Fields berubah.
func applyFields(rec *model.TimeRecordModel, fields map[string]any) {
	for col, v := range fields {
		switch col {
		case ColCheckIn:
			rec.TimeRecordCheckIn = asTimePtr(v)
		case ColCheckOut:
			rec.TimeRecordCheckOut = asTimePtr(v)
		case ColCheckInRecorderUID:
			rec.TimeRecordCheckInRecorderUID = asUUIDPtr(v)
		case ColCheckOutRecorderUID:
			rec.TimeRecordCheckOutRecorderUID = asUUIDPtr(v)
		case ColDeductionMinutes:
			rec.TimeRecordDeductionMinutes = v.(int)
		case ColNotes:
			if v == nil {
				rec.TimeRecordNotes = nil
			} else {
				s := v.(string)
				rec.TimeRecordNotes = &s
			}
		}
	}
}

func asTimePtr(v any) *time.Time {
	if v == nil {
		return nil
	}
	if t, ok := v.(time.Time); ok {
		return &t
	}
	return v.(*time.Time)
}

func asUUIDPtr(v any) *uuid.UUID {
	if v == nil {
		return nil
	}
	if u, ok := v.(uuid.UUID); ok {
		return &u
	}
	return v.(*uuid.UUID)
}

func ts(h, m int) *time.Time {
	t := time.Date(2026, 8, 28, h, m, 0, 0, time.Local)
	return &t
}

// ===============================
// Decide
// ===============================

func TestDecide(t *testing.T) {
	tests := []struct {
		name    string
		rec     *model.TimeRecordModel
		want    Action
		wantErr error
	}{
		{
			name: "belum ada record → check_in",
			rec:  nil,
			want: ActionCheckIn,
		},
		{
			name: "masuk belum pulang → check_out",
			rec:  &model.TimeRecordModel{TimeRecordCheckIn: ts(7, 30)},
			want: ActionCheckOut,
		},
		{
			name: "lengkap → already_complete",
			rec: &model.TimeRecordModel{
				TimeRecordCheckIn:  ts(7, 30),
				TimeRecordCheckOut: ts(16, 0),
			},
			want: ActionAlreadyComplete,
		},
		{
			name:    "checkOut tanpa checkIn → data rusak",
			rec:     &model.TimeRecordModel{TimeRecordCheckOut: ts(16, 0)},
			wantErr: ErrBrokenRecord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decide(tt.rec)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// ===============================
// CheckIn / CheckOut transitions
// ===============================

func TestCheckInDoubleRejected(t *testing.T) {
	store := newMemStore()
	eng := NewEngine(store)
	ctx := context.Background()
	op := uuid.New()

	require.NoError(t, eng.CheckIn(ctx, "alice@absenku.app", "2026-08-28", *ts(7, 30), op))

	// check-in kedua pada hari yang sama ditolak, store tidak berubah
	before := len(store.writes)
	err := eng.CheckIn(ctx, "alice@absenku.app", "2026-08-28", *ts(7, 45), op)
	require.ErrorIs(t, err, ErrAlreadyCheckedIn)
	assert.Len(t, store.writes, before)

	rec := store.recs[key("alice@absenku.app", "2026-08-28")]
	assert.Equal(t, *ts(7, 30), *rec.TimeRecordCheckIn, "checkIn pertama tidak boleh tertimpa")
}

func TestCheckOutWithoutCheckInRejected(t *testing.T) {
	store := newMemStore()
	eng := NewEngine(store)

	err := eng.CheckOut(context.Background(), "bob@absenku.app", "2026-08-28", *ts(16, 0), uuid.New())
	require.ErrorIs(t, err, ErrNoCheckIn)
	assert.Empty(t, store.writes, "tidak boleh ada write saat transisi ditolak")
	assert.Empty(t, store.recs)
}

func TestCheckOutOnCompleteRejected(t *testing.T) {
	store := newMemStore()
	store.recs[key("alice@absenku.app", "2026-08-28")] = &model.TimeRecordModel{
		TimeRecordUserEmail: "alice@absenku.app",
		TimeRecordDate:      "2026-08-28",
		TimeRecordCheckIn:   ts(7, 30),
		TimeRecordCheckOut:  ts(16, 0),
	}
	eng := NewEngine(store)

	err := eng.CheckOut(context.Background(), "alice@absenku.app", "2026-08-28", *ts(17, 0), uuid.New())
	require.ErrorIs(t, err, ErrAlreadyCheckedOut)
	assert.Empty(t, store.writes)
}

func TestCheckInOnlyTouchesCheckInColumns(t *testing.T) {
	store := newMemStore()
	eng := NewEngine(store)

	require.NoError(t, eng.CheckIn(context.Background(), "alice@absenku.app", "2026-08-28", *ts(7, 30), uuid.New()))
	require.Len(t, store.writes, 1)

	w := store.writes[0]
	assert.Contains(t, w.Fields, ColCheckIn)
	assert.Contains(t, w.Fields, ColCheckInRecorderUID)
	assert.NotContains(t, w.Fields, ColCheckOut, "checkIn tidak boleh menyentuh kolom checkOut")
	assert.NotContains(t, w.Fields, ColCheckOutRecorderUID)
}

func TestStoreErrorSurfaces(t *testing.T) {
	store := newMemStore()
	store.getErr = errors.New("koneksi putus")
	eng := NewEngine(store)

	_, _, err := eng.DecideFor(context.Background(), "alice@absenku.app", "2026-08-28")
	require.Error(t, err)
	assert.Empty(t, store.writes, "error store tidak boleh memicu write maupun retry")
}

// ===============================
// Skenario: tiga scan berurutan pada hari yang sama
// ===============================

func TestScenarioThreeScansSameDay(t *testing.T) {
	store := newMemStore()
	eng := NewEngine(store)
	ctx := context.Background()
	op := uuid.New()
	const email = "alice@absenku.app"
	const date = "2026-08-28"

	// Scan 1: belum ada record → tawaran check_in, lalu confirm
	action, rec, err := eng.DecideFor(ctx, email, date)
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Equal(t, ActionCheckIn, action)
	require.NoError(t, eng.Apply(ctx, action, email, date, *ts(7, 30), op))

	// Scan 2: sudah masuk → tawaran check_out, lalu confirm
	action, rec, err = eng.DecideFor(ctx, email, date)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, ActionCheckOut, action)
	require.NoError(t, eng.Apply(ctx, action, email, date, *ts(16, 0), op))

	// Scan 3: hari sudah lengkap → terminal, confirm pun ditolak
	action, rec, err = eng.DecideFor(ctx, email, date)
	require.NoError(t, err)
	assert.Equal(t, ActionAlreadyComplete, action)
	assert.True(t, rec.IsComplete())
	require.ErrorIs(t, eng.Apply(ctx, action, email, date, *ts(17, 0), op), ErrAlreadyCheckedOut)

	// record akhir utuh
	final := store.recs[key(email, date)]
	assert.Equal(t, *ts(7, 30), *final.TimeRecordCheckIn)
	assert.Equal(t, *ts(16, 0), *final.TimeRecordCheckOut)
	assert.Equal(t, 510, final.WorkedMinutes())
}
