// internals/features/attendance/record/service/store.go
package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"absenku_backend/internals/features/attendance/record/model"
)

// MergeWrite: tulisan field-level ke record berkunci (userEmail, date).
// Fields berisi kolom → nilai; kolom di luar Fields tidak pernah disentuh,
// sehingga dua penulis pada kolom berbeda tidak saling menimpa
// (kolom sama = last-write-wins, sama dengan semantik merge Firestore).
type MergeWrite struct {
	UserEmail string
	Date      string
	Fields    map[string]any
}

var ErrRecordMissing = errors.New("time record tidak ditemukan")

// TimeRecordStore: port document-store untuk engine rekonsiliasi.
type TimeRecordStore interface {
	// Get: (nil, nil) jika belum ada record untuk (email, date)
	Get(ctx context.Context, userEmail, date string) (*model.TimeRecordModel, error)
	// MergeSet: upsert; hanya kolom pada Fields yang di-set/di-update
	MergeSet(ctx context.Context, w MergeWrite) error
	// Update: seperti MergeSet tapi wajib baris sudah ada (ErrRecordMissing)
	Update(ctx context.Context, w MergeWrite) error
}

// ===============================
// GORM implementation
// ===============================

type GormTimeRecordStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormTimeRecordStore {
	return &GormTimeRecordStore{DB: db}
}

func (s *GormTimeRecordStore) Get(ctx context.Context, userEmail, date string) (*model.TimeRecordModel, error) {
	var rec model.TimeRecordModel
	err := s.DB.WithContext(ctx).
		Where("time_record_user_email = ? AND time_record_date = ?", normEmail(userEmail), date).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *GormTimeRecordStore) MergeSet(ctx context.Context, w MergeWrite) error {
	if err := mergeSetTx(s.DB.WithContext(ctx), w); err != nil {
		return err
	}
	s.notifyChanged(ctx, w.UserEmail)
	return nil
}

func (s *GormTimeRecordStore) Update(ctx context.Context, w MergeWrite) error {
	res := s.DB.WithContext(ctx).
		Model(&model.TimeRecordModel{}).
		Where("time_record_user_email = ? AND time_record_date = ?", normEmail(w.UserEmail), w.Date).
		Updates(w.Fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordMissing
	}
	s.notifyChanged(ctx, w.UserEmail)
	return nil
}

// mergeSetTx: upsert berkunci natural key, update hanya kolom yang diminta.
// Dipakai juga oleh committer batch di dalam satu transaksi.
func mergeSetTx(tx *gorm.DB, w MergeWrite) error {
	row := map[string]any{
		"time_record_user_email": normEmail(w.UserEmail),
		"time_record_date":       w.Date,
	}
	cols := make([]string, 0, len(w.Fields))
	for k, v := range w.Fields {
		row[k] = v
		cols = append(cols, k)
	}
	return tx.Model(&model.TimeRecordModel{}).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "time_record_user_email"}, {Name: "time_record_date"}},
			DoUpdates: clause.AssignmentColumns(cols),
		}).
		Create(row).Error
}

// MergeSetTx: versi transaksional untuk pemanggil yang bawa tx sendiri.
func MergeSetTx(tx *gorm.DB, w MergeWrite) error {
	return mergeSetTx(tx, w)
}

// notifyChanged: pg_notify supaya watcher direktori refresh. Best effort.
func (s *GormTimeRecordStore) notifyChanged(ctx context.Context, userEmail string) {
	_ = s.DB.WithContext(ctx).
		Exec("SELECT pg_notify('time_records_changed', ?)", normEmail(userEmail)).Error
}

func normEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
