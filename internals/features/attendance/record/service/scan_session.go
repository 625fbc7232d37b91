// internals/features/attendance/record/service/scan_session.go
package service

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrScanInFlight = errors.New("masih ada proses scan yang berjalan")

// ScanGuard: single-flight untuk alur scan → decide → confirm → write.
// Hanya satu alur aktif per kios; percobaan kedua ditolak (bukan antri)
// sampai alur pertama selesai atau dibatalkan. Cancel tidak menulis apa pun.
type ScanGuard struct {
	mu sync.Mutex

	token     uuid.UUID // uuid.Nil = tidak ada alur aktif
	userEmail string
	action    Action
	startedAt time.Time
	ttl       time.Duration
}

// NewScanGuard: ttl > 0 = alur basi otomatis dianggap selesai (operator
// menutup dialog tanpa confirm/cancel).
func NewScanGuard(ttl time.Duration) *ScanGuard {
	return &ScanGuard{ttl: ttl}
}

// Begin: mulai alur; kembalikan token yang wajib dipakai saat confirm/cancel.
func (g *ScanGuard) Begin(userEmail string, action Action) (uuid.UUID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.token != uuid.Nil && !g.expiredLocked() {
		return uuid.Nil, ErrScanInFlight
	}

	g.token = uuid.New()
	g.userEmail = userEmail
	g.action = action
	g.startedAt = time.Now()
	return g.token, nil
}

// Claim: validasi token confirm dan kunci alurnya; (email, action) dikembalikan
// supaya handler confirm tidak percaya input client.
func (g *ScanGuard) Claim(token uuid.UUID) (string, Action, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.token == uuid.Nil || g.token != token || g.expiredLocked() {
		return "", "", false
	}
	return g.userEmail, g.action, true
}

// Finish: alur selesai (sukses ataupun gagal write), guard dilepas.
func (g *ScanGuard) Finish(token uuid.UUID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.token == token {
		g.reset()
	}
}

// Cancel: operator batal; tanpa write, guard dilepas agar scan berikutnya bisa.
func (g *ScanGuard) Cancel(token uuid.UUID) {
	g.Finish(token)
}

func (g *ScanGuard) InFlight() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.token != uuid.Nil && !g.expiredLocked()
}

// caller harus pegang g.mu
func (g *ScanGuard) expiredLocked() bool {
	if g.ttl <= 0 {
		return false
	}
	if time.Since(g.startedAt) > g.ttl {
		g.reset()
		return true
	}
	return false
}

func (g *ScanGuard) reset() {
	g.token = uuid.Nil
	g.userEmail = ""
	g.action = ""
	g.startedAt = time.Time{}
}
