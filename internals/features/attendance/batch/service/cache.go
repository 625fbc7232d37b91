// internals/features/attendance/batch/service/cache.go
//
// Cache aksi batch: overlay lokal email → {checkIn?, checkOut?} yang belum
// disinkronkan. Dipersist di KV (ala localStorage) per operator, digabung
// dengan potret server untuk menghitung enablement tombol, lalu di-commit
// sekali jalan secara atomik.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	dirService "absenku_backend/internals/features/attendance/directory/service"
	recordService "absenku_backend/internals/features/attendance/record/service"
	"absenku_backend/internals/helpers/dbtime"
	"absenku_backend/internals/helpers/kvstore"
)

type Kind string

const (
	KindCheckIn  Kind = "check_in"
	KindCheckOut Kind = "check_out"
)

var (
	ErrSyncInFlight = errors.New("sinkronisasi masih berjalan")
	ErrEmptyCache   = errors.New("tidak ada aksi yang menunggu sinkronisasi")
	ErrNoOperator   = errors.New("identitas operator tidak tersedia")
	ErrBadKind      = errors.New("jenis aksi tidak dikenal")
)

// StagedMark: satu niat lokal (instant + label tampilan).
type StagedMark struct {
	Timestamp time.Time `json:"timestamp"`
	Label     string    `json:"label"`
}

// CachedAction: niat per user. Entry kosong (dua-duanya nil) tidak pernah
// disimpan; user langsung hilang dari map.
type CachedAction struct {
	CheckIn  *StagedMark `json:"check_in,omitempty"`
	CheckOut *StagedMark `json:"check_out,omitempty"`
}

func (a *CachedAction) empty() bool {
	return a == nil || (a.CheckIn == nil && a.CheckOut == nil)
}

// CachedActions: email → aksi tertunda.
type CachedActions map[string]*CachedAction

const cacheKeyPrefix = "batch-record-actions:"

// Cache: engine batch milik satu operator.
type Cache struct {
	kv        kvstore.KeyValueStore
	key       string
	committer Committer

	mu      sync.Mutex
	syncing bool

	now func() time.Time
}

func NewCache(kv kvstore.KeyValueStore, committer Committer, operatorUID uuid.UUID) *Cache {
	return &Cache{
		kv:        kv,
		key:       cacheKeyPrefix + operatorUID.String(),
		committer: committer,
		now:       time.Now,
	}
}

// Load: baca cache dari KV. KV kosong = cache kosong, bukan error.
func (c *Cache) Load() (CachedActions, error) {
	raw, found, err := c.kv.Get(c.key)
	if err != nil {
		return nil, err
	}
	if !found || len(raw) == 0 {
		return CachedActions{}, nil
	}
	var actions CachedActions
	if err := json.Unmarshal(raw, &actions); err != nil {
		// isi rusak diperlakukan seperti kosong (sama dengan useLocalStorage)
		return CachedActions{}, nil
	}
	if actions == nil {
		actions = CachedActions{}
	}
	return actions, nil
}

func (c *Cache) save(actions CachedActions) error {
	if len(actions) == 0 {
		return c.kv.Delete(c.key)
	}
	raw, err := json.Marshal(actions)
	if err != nil {
		return err
	}
	return c.kv.Set(c.key, raw)
}

// Toggle: stage kalau belum ada, un-stage kalau sudah ada.
// Un-stage checkIn menyeret checkOut ikut hilang: tidak boleh ada niat
// pulang tanpa konteks masuk. Entry yang jadi kosong dibuang dari map.
func (c *Cache) Toggle(userEmail, label string, kind Kind) (CachedActions, error) {
	if kind != KindCheckIn && kind != KindCheckOut {
		return nil, ErrBadKind
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	actions, err := c.Load()
	if err != nil {
		return nil, err
	}

	entry := actions[userEmail]
	if entry == nil {
		entry = &CachedAction{}
	}

	mark := &StagedMark{Timestamp: c.now(), Label: label}
	switch kind {
	case KindCheckIn:
		if entry.CheckIn != nil {
			entry.CheckIn = nil
			entry.CheckOut = nil // cascading clear
		} else {
			entry.CheckIn = mark
		}
	case KindCheckOut:
		if entry.CheckOut != nil {
			entry.CheckOut = nil
		} else {
			entry.CheckOut = mark
		}
	}

	if entry.empty() {
		delete(actions, userEmail)
	} else {
		actions[userEmail] = entry
	}

	if err := c.save(actions); err != nil {
		return nil, err
	}
	return actions, nil
}

// Clear: buang seluruh cache tanpa menyentuh store. Konfirmasi destruktif
// adalah urusan pemanggil.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Delete(c.key)
}

// Count: jumlah user dengan aksi tertunda.
func (c *Cache) Count() (int, error) {
	actions, err := c.Load()
	if err != nil {
		return 0, err
	}
	return len(actions), nil
}

// ===============================
// Effective state (enablement UI)
// ===============================

type EffectiveState struct {
	EffectiveCheckedIn  bool `json:"effective_checked_in"`
	EffectiveCheckedOut bool `json:"effective_checked_out"`
	LogicalCheckOut     bool `json:"logical_check_out"`
	CheckInDisabled     bool `json:"check_in_disabled"`
	CheckOutDisabled    bool `json:"check_out_disabled"`
	PendingSync         bool `json:"pending_sync"`
}

// Effective: gabungan kebenaran server (pending/completed) + cache lokal.
// Murni terhadap snapshot; tidak membaca store.
func Effective(entry *CachedAction, email string, snap dirService.Snapshot) EffectiveState {
	stagedIn := entry != nil && entry.CheckIn != nil
	stagedOut := entry != nil && entry.CheckOut != nil
	serverIn := snap.IsPending(email) || snap.IsCompletedToday(email)
	serverOut := snap.IsCompletedToday(email)

	st := EffectiveState{
		EffectiveCheckedIn:  stagedIn || serverIn,
		EffectiveCheckedOut: stagedOut || serverOut,
	}
	st.LogicalCheckOut = st.EffectiveCheckedIn && st.EffectiveCheckedOut
	st.CheckInDisabled = st.EffectiveCheckedIn
	st.CheckOutDisabled = !st.EffectiveCheckedIn || st.LogicalCheckOut
	st.PendingSync = (stagedIn && !serverIn) || (stagedOut && !serverOut)
	return st
}

// ===============================
// Sync (commit batch atomik)
// ===============================

// Sync: commit semua aksi tertunda dalam satu batch atomik.
// Precondition gagal → error sentinel, tanpa efek samping. Commit gagal →
// cache TIDAK disentuh supaya operator bisa coba lagi. Sukses → cache kosong,
// kembalikan jumlah user yang tersinkron.
func (c *Cache) Sync(ctx context.Context, operatorUID uuid.UUID) (int, error) {
	if operatorUID == uuid.Nil {
		return 0, ErrNoOperator
	}

	c.mu.Lock()
	if c.syncing {
		c.mu.Unlock()
		return 0, ErrSyncInFlight
	}
	actions, err := c.Load()
	if err != nil {
		c.mu.Unlock()
		return 0, err
	}
	if len(actions) == 0 {
		c.mu.Unlock()
		return 0, ErrEmptyCache
	}
	c.syncing = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.syncing = false
		c.mu.Unlock()
	}()

	writes := buildWrites(actions, operatorUID)
	if err := c.committer.Commit(ctx, operatorUID, writes, actions); err != nil {
		return 0, err
	}

	c.mu.Lock()
	err = c.kv.Delete(c.key)
	c.mu.Unlock()
	if err != nil {
		// commit SUDAH jalan; melapor gagal di sini bikin operator retry dan
		// menghasilkan audit ganda. Sisa cache basi hilang di Clear/sync ulang.
		log.Printf("⚠️ Cache batch %s gagal dibersihkan setelah commit: %v", c.key, err)
	}
	return len(actions), nil
}

// buildWrites: terjemahkan cache → merge-write per user, semuanya berkunci
// (email, hari-ini-saat-sync). checkIn staged tanpa checkOut staged →
// checkOut di-null-kan eksplisit, supaya check-in segar tidak mewarisi
// checkOut basi dari cache klien yang lama.
func buildWrites(actions CachedActions, operatorUID uuid.UUID) []recordService.MergeWrite {
	today := dbtime.Today()
	writes := make([]recordService.MergeWrite, 0, len(actions))
	for email, entry := range actions {
		fields := map[string]any{}
		if entry.CheckIn != nil {
			fields[recordService.ColCheckIn] = entry.CheckIn.Timestamp
			fields[recordService.ColCheckInRecorderUID] = operatorUID
			if entry.CheckOut == nil {
				fields[recordService.ColCheckOut] = nil
				fields[recordService.ColCheckOutRecorderUID] = nil
			}
		}
		if entry.CheckOut != nil {
			fields[recordService.ColCheckOut] = entry.CheckOut.Timestamp
			fields[recordService.ColCheckOutRecorderUID] = operatorUID
		}
		writes = append(writes, recordService.MergeWrite{
			UserEmail: email,
			Date:      today,
			Fields:    fields,
		})
	}
	return writes
}
