package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanGuardSingleFlight(t *testing.T) {
	g := NewScanGuard(0)

	tok, err := g.Begin("alice@absenku.app", ActionCheckIn)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, tok)
	assert.True(t, g.InFlight())

	// scan kedua selagi alur pertama jalan → ditolak, bukan antri
	_, err = g.Begin("bob@absenku.app", ActionCheckIn)
	require.ErrorIs(t, err, ErrScanInFlight)

	// alur pertama tetap utuh
	email, action, ok := g.Claim(tok)
	require.True(t, ok)
	assert.Equal(t, "alice@absenku.app", email)
	assert.Equal(t, ActionCheckIn, action)
}

func TestScanGuardFinishReleases(t *testing.T) {
	g := NewScanGuard(0)

	tok, err := g.Begin("alice@absenku.app", ActionCheckOut)
	require.NoError(t, err)

	g.Finish(tok)
	assert.False(t, g.InFlight())

	// token bekas tidak bisa dipakai lagi
	_, _, ok := g.Claim(tok)
	assert.False(t, ok)

	// guard siap untuk scan berikutnya
	_, err = g.Begin("bob@absenku.app", ActionCheckIn)
	require.NoError(t, err)
}

func TestScanGuardCancelNoWriteAndRearm(t *testing.T) {
	g := NewScanGuard(0)

	tok, err := g.Begin("alice@absenku.app", ActionCheckIn)
	require.NoError(t, err)

	g.Cancel(tok)
	assert.False(t, g.InFlight())

	tok2, err := g.Begin("alice@absenku.app", ActionCheckIn)
	require.NoError(t, err)
	assert.NotEqual(t, tok, tok2)
}

func TestScanGuardWrongTokenIgnored(t *testing.T) {
	g := NewScanGuard(0)

	tok, err := g.Begin("alice@absenku.app", ActionCheckIn)
	require.NoError(t, err)

	// Finish dengan token ngawur tidak melepas alur aktif
	g.Finish(uuid.New())
	assert.True(t, g.InFlight())

	_, _, ok := g.Claim(uuid.New())
	assert.False(t, ok)

	_, _, ok = g.Claim(tok)
	assert.True(t, ok)
}

func TestScanGuardTTLExpiry(t *testing.T) {
	g := NewScanGuard(10 * time.Millisecond)

	tok, err := g.Begin("alice@absenku.app", ActionCheckIn)
	require.NoError(t, err)

	time.Sleep(25 * time.Millisecond)

	// alur basi: claim gagal, scan baru boleh masuk
	_, _, ok := g.Claim(tok)
	assert.False(t, ok)

	_, err = g.Begin("bob@absenku.app", ActionCheckIn)
	require.NoError(t, err)
}
