// internals/features/attendance/directory/service/directory_service.go
//
// Direktori = potret read-only gabungan daftar user + dua standing query:
// "record tanpa checkOut" (pending) dan "record hari ini yang sudah
// checkOut" (completed). Logika inti hanya mengkonsumsi Snapshot;
// tidak ada yang boleh menulis balik ke set turunan ini.
package service

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	recordModel "absenku_backend/internals/features/attendance/record/model"
	userModel "absenku_backend/internals/features/users/user/model"
	"absenku_backend/internals/helpers/dbtime"
)

type Snapshot struct {
	Users          []userModel.UserModel `json:"users"`
	Pending        map[string]bool       `json:"pending"`         // email → masih di dalam (belum checkOut)
	CompletedToday map[string]bool       `json:"completed_today"` // email → hari ini sudah checkOut
	TakenAt        time.Time             `json:"taken_at"`
}

// IsPending / IsCompletedToday: nil-safe lookup
func (s Snapshot) IsPending(email string) bool        { return s.Pending[email] }
func (s Snapshot) IsCompletedToday(email string) bool { return s.CompletedToday[email] }

type Observer func(Snapshot)

type Service struct {
	db *gorm.DB

	mu   sync.RWMutex
	snap Snapshot

	subMu sync.Mutex
	subs  map[int]Observer
	next  int
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		db:   db,
		snap: Snapshot{Pending: map[string]bool{}, CompletedToday: map[string]bool{}},
		subs: make(map[int]Observer),
	}
}

// Snapshot: salinan potret terkini (map di-copy supaya caller tidak bisa
// memutasi state internal).
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySnapshot(s.snap)
}

// Refresh: requery users + dua standing query, lalu fan-out ke observer.
func (s *Service) Refresh(ctx context.Context) error {
	var users []userModel.UserModel
	if err := s.db.WithContext(ctx).
		Order("user_class_id, user_seat_no").
		Find(&users).Error; err != nil {
		return err
	}

	today := dbtime.Today()

	var pendingRows []recordModel.TimeRecordModel
	if err := s.db.WithContext(ctx).
		Where("time_record_check_in IS NOT NULL AND time_record_check_out IS NULL").
		Find(&pendingRows).Error; err != nil {
		return err
	}

	var completedRows []recordModel.TimeRecordModel
	if err := s.db.WithContext(ctx).
		Where("time_record_date = ? AND time_record_check_out IS NOT NULL", today).
		Find(&completedRows).Error; err != nil {
		return err
	}

	snap := Snapshot{
		Users:          users,
		Pending:        make(map[string]bool, len(pendingRows)),
		CompletedToday: make(map[string]bool, len(completedRows)),
		TakenAt:        time.Now(),
	}
	for _, r := range pendingRows {
		snap.Pending[r.TimeRecordUserEmail] = true
	}
	for _, r := range completedRows {
		snap.CompletedToday[r.TimeRecordUserEmail] = true
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	s.publish(snap)
	return nil
}

// Subscribe: observer dipanggil tiap snapshot baru; kembalian untuk berhenti.
func (s *Service) Subscribe(fn Observer) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.next
	s.next++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Service) publish(snap Snapshot) {
	s.subMu.Lock()
	fns := make([]Observer, 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(copySnapshot(snap))
	}
}

func copySnapshot(in Snapshot) Snapshot {
	out := Snapshot{
		Users:          make([]userModel.UserModel, len(in.Users)),
		Pending:        make(map[string]bool, len(in.Pending)),
		CompletedToday: make(map[string]bool, len(in.CompletedToday)),
		TakenAt:        in.TakenAt,
	}
	copy(out.Users, in.Users)
	for k, v := range in.Pending {
		out.Pending[k] = v
	}
	for k, v := range in.CompletedToday {
		out.CompletedToday[k] = v
	}
	return out
}
