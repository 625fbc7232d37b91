package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dirService "absenku_backend/internals/features/attendance/directory/service"
	recordService "absenku_backend/internals/features/attendance/record/service"
	"absenku_backend/internals/helpers/dbtime"
	"absenku_backend/internals/helpers/kvstore"
)

// fakeCommitter: merekam commit yang diminta; bisa dipaksa gagal.
type fakeCommitter struct {
	fail    error
	calls   int
	writes  []recordService.MergeWrite
	entries CachedActions
}

func (f *fakeCommitter) Commit(_ context.Context, _ uuid.UUID, writes []recordService.MergeWrite, entries CachedActions) error {
	f.calls++
	if f.fail != nil {
		return f.fail
	}
	f.writes = writes
	f.entries = entries
	return nil
}

func newTestCache(t *testing.T) (*Cache, *fakeCommitter, kvstore.KeyValueStore, uuid.UUID) {
	t.Helper()
	kv := kvstore.NewMemory()
	committer := &fakeCommitter{}
	op := uuid.New()
	return NewCache(kv, committer, op), committer, kv, op
}

// ===============================
// Toggle
// ===============================

func TestToggleStagesAndUnstages(t *testing.T) {
	c, _, _, _ := newTestCache(t)

	actions, err := c.Toggle("bob@absenku.app", "Bob", KindCheckIn)
	require.NoError(t, err)
	require.Contains(t, actions, "bob@absenku.app")
	assert.NotNil(t, actions["bob@absenku.app"].CheckIn)
	assert.Equal(t, "Bob", actions["bob@absenku.app"].CheckIn.Label)
	assert.Nil(t, actions["bob@absenku.app"].CheckOut)

	// toggle kedua = un-stage; entry kosong hilang dari map
	actions, err = c.Toggle("bob@absenku.app", "Bob", KindCheckIn)
	require.NoError(t, err)
	assert.NotContains(t, actions, "bob@absenku.app")

	// persist antar instance (key sama, KV sama)
	n, err := c.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestToggleCheckInCascadesCheckOut(t *testing.T) {
	c, _, _, _ := newTestCache(t)

	_, err := c.Toggle("bob@absenku.app", "Bob", KindCheckIn)
	require.NoError(t, err)
	actions, err := c.Toggle("bob@absenku.app", "Bob", KindCheckOut)
	require.NoError(t, err)
	require.NotNil(t, actions["bob@absenku.app"].CheckIn)
	require.NotNil(t, actions["bob@absenku.app"].CheckOut)

	// un-stage checkIn menyeret checkOut; tidak ada niat pulang yatim
	actions, err = c.Toggle("bob@absenku.app", "Bob", KindCheckIn)
	require.NoError(t, err)
	assert.NotContains(t, actions, "bob@absenku.app")
}

func TestToggleCheckOutAloneLeavesCheckIn(t *testing.T) {
	c, _, _, _ := newTestCache(t)

	_, err := c.Toggle("bob@absenku.app", "Bob", KindCheckIn)
	require.NoError(t, err)
	_, err = c.Toggle("bob@absenku.app", "Bob", KindCheckOut)
	require.NoError(t, err)

	// un-stage hanya checkOut; checkIn bertahan
	actions, err := c.Toggle("bob@absenku.app", "Bob", KindCheckOut)
	require.NoError(t, err)
	require.Contains(t, actions, "bob@absenku.app")
	assert.NotNil(t, actions["bob@absenku.app"].CheckIn)
	assert.Nil(t, actions["bob@absenku.app"].CheckOut)
}

func TestToggleBadKind(t *testing.T) {
	c, _, _, _ := newTestCache(t)
	_, err := c.Toggle("bob@absenku.app", "Bob", Kind("lembur"))
	require.ErrorIs(t, err, ErrBadKind)
}

func TestLoadCorruptCacheTreatedAsEmpty(t *testing.T) {
	kv := kvstore.NewMemory()
	op := uuid.New()
	require.NoError(t, kv.Set(cacheKeyPrefix+op.String(), []byte("{bukan json")))

	c := NewCache(kv, &fakeCommitter{}, op)
	actions, err := c.Load()
	require.NoError(t, err)
	assert.Empty(t, actions)
}

// ===============================
// Effective state (gabung server + cache)
// ===============================

func TestEffectiveState(t *testing.T) {
	mark := &StagedMark{Label: "Bob"}
	snap := dirService.Snapshot{
		Pending:        map[string]bool{"in@x": true},
		CompletedToday: map[string]bool{"done@x": true},
	}

	tests := []struct {
		name  string
		entry *CachedAction
		email string
		want  EffectiveState
	}{
		{
			name:  "bersih: tidak ada di mana-mana",
			entry: nil,
			email: "new@x",
			want: EffectiveState{
				CheckOutDisabled: true, // belum masuk → tidak bisa pulang
			},
		},
		{
			name:  "staged checkIn saja",
			entry: &CachedAction{CheckIn: mark},
			email: "new@x",
			want: EffectiveState{
				EffectiveCheckedIn: true,
				CheckInDisabled:    true,
				PendingSync:        true,
			},
		},
		{
			name:  "server pending, tanpa cache",
			entry: nil,
			email: "in@x",
			want: EffectiveState{
				EffectiveCheckedIn: true,
				CheckInDisabled:    true,
			},
		},
		{
			name:  "server pending + staged checkOut",
			entry: &CachedAction{CheckOut: mark},
			email: "in@x",
			want: EffectiveState{
				EffectiveCheckedIn:  true,
				EffectiveCheckedOut: true,
				LogicalCheckOut:     true,
				CheckInDisabled:     true,
				CheckOutDisabled:    true,
				PendingSync:         true,
			},
		},
		{
			name:  "server completed, tanpa cache",
			entry: nil,
			email: "done@x",
			want: EffectiveState{
				EffectiveCheckedIn:  true,
				EffectiveCheckedOut: true,
				LogicalCheckOut:     true,
				CheckInDisabled:     true,
				CheckOutDisabled:    true,
			},
		},
		{
			name:  "staged dua-duanya, server belum tahu",
			entry: &CachedAction{CheckIn: mark, CheckOut: mark},
			email: "new@x",
			want: EffectiveState{
				EffectiveCheckedIn:  true,
				EffectiveCheckedOut: true,
				LogicalCheckOut:     true,
				CheckInDisabled:     true,
				CheckOutDisabled:    true,
				PendingSync:         true,
			},
		},
		{
			name:  "cache setuju dengan server → tidak pending",
			entry: &CachedAction{CheckIn: mark, CheckOut: mark},
			email: "done@x",
			want: EffectiveState{
				EffectiveCheckedIn:  true,
				EffectiveCheckedOut: true,
				LogicalCheckOut:     true,
				CheckInDisabled:     true,
				CheckOutDisabled:    true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Effective(tt.entry, tt.email, snap)
			assert.Equal(t, tt.want, got)
		})
	}
}

// ===============================
// Sync
// ===============================

func TestSyncPreconditions(t *testing.T) {
	c, committer, _, op := newTestCache(t)
	ctx := context.Background()

	// cache kosong → no-op bertanda
	_, err := c.Sync(ctx, op)
	require.ErrorIs(t, err, ErrEmptyCache)

	// operator tidak dikenal → no-op bertanda
	_, err = c.Sync(ctx, uuid.Nil)
	require.ErrorIs(t, err, ErrNoOperator)

	// sinkronisasi sedang jalan → ditolak
	_, err = c.Toggle("bob@absenku.app", "Bob", KindCheckIn)
	require.NoError(t, err)
	c.mu.Lock()
	c.syncing = true
	c.mu.Unlock()
	_, err = c.Sync(ctx, op)
	require.ErrorIs(t, err, ErrSyncInFlight)

	assert.Zero(t, committer.calls, "precondition gagal tidak boleh menyentuh committer")
}

func TestSyncFailureKeepsCache(t *testing.T) {
	c, committer, _, op := newTestCache(t)
	committer.fail = errors.New("commit gagal total")

	_, err := c.Toggle("bob@absenku.app", "Bob", KindCheckIn)
	require.NoError(t, err)
	_, err = c.Toggle("cindy@absenku.app", "Cindy", KindCheckIn)
	require.NoError(t, err)

	_, err = c.Sync(context.Background(), op)
	require.Error(t, err)

	// cache utuh supaya operator bisa coba lagi
	n, err := c.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// retry setelah penyebab hilang → sukses dan cache kosong
	committer.fail = nil
	synced, err := c.Sync(context.Background(), op)
	require.NoError(t, err)
	assert.Equal(t, 2, synced)
	n, err = c.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSyncSuccessClearsCacheAndKV(t *testing.T) {
	c, committer, kv, op := newTestCache(t)

	_, err := c.Toggle("bob@absenku.app", "Bob", KindCheckIn)
	require.NoError(t, err)

	synced, err := c.Sync(context.Background(), op)
	require.NoError(t, err)
	assert.Equal(t, 1, synced)
	assert.Equal(t, 1, committer.calls)

	_, found, err := kv.Get(cacheKeyPrefix + op.String())
	require.NoError(t, err)
	assert.False(t, found, "key KV harus hilang setelah commit sukses")
}

// failingDeleteKV: Delete bisa dipaksa gagal setelah commit sukses.
type failingDeleteKV struct {
	kvstore.KeyValueStore
	failDelete bool
}

func (f *failingDeleteKV) Delete(key string) error {
	if f.failDelete {
		return errors.New("disk penuh")
	}
	return f.KeyValueStore.Delete(key)
}

func TestSyncCommitSucceedsButClearFailsStillReportsSuccess(t *testing.T) {
	kv := &failingDeleteKV{KeyValueStore: kvstore.NewMemory()}
	committer := &fakeCommitter{}
	op := uuid.New()
	c := NewCache(kv, committer, op)

	_, err := c.Toggle("bob@absenku.app", "Bob", KindCheckIn)
	require.NoError(t, err)

	// semua baris sudah tertulis; kegagalan bersih-bersih cache bukan alasan
	// operator retry dan bikin audit ganda
	kv.failDelete = true
	synced, err := c.Sync(context.Background(), op)
	require.NoError(t, err)
	assert.Equal(t, 1, synced)
	assert.Equal(t, 1, committer.calls)
}

func TestBuildWritesKeyedTodayAndNullsStaleCheckOut(t *testing.T) {
	op := uuid.New()
	mark := &StagedMark{Label: "Bob"}

	writes := buildWrites(CachedActions{
		"bob@absenku.app":   {CheckIn: mark},             // masuk saja
		"cindy@absenku.app": {CheckIn: mark, CheckOut: mark}, // hari penuh
		"dedi@absenku.app":  {CheckOut: mark},            // pulang saja
	}, op)
	require.Len(t, writes, 3)

	byEmail := map[string]recordService.MergeWrite{}
	for _, w := range writes {
		assert.Equal(t, dbtime.Today(), w.Date, "semua write berkunci hari-ini-saat-sync")
		byEmail[w.UserEmail] = w
	}

	// checkIn staged tanpa checkOut → checkOut di-null-kan eksplisit
	bob := byEmail["bob@absenku.app"].Fields
	assert.NotNil(t, bob[recordService.ColCheckIn])
	require.Contains(t, bob, recordService.ColCheckOut)
	assert.Nil(t, bob[recordService.ColCheckOut])
	assert.Nil(t, bob[recordService.ColCheckOutRecorderUID])

	// dua-duanya staged → dua-duanya terisi, tidak ada null
	cindy := byEmail["cindy@absenku.app"].Fields
	assert.NotNil(t, cindy[recordService.ColCheckIn])
	assert.NotNil(t, cindy[recordService.ColCheckOut])

	// checkOut saja → kolom checkIn tidak disentuh sama sekali
	dedi := byEmail["dedi@absenku.app"].Fields
	assert.NotContains(t, dedi, recordService.ColCheckIn)
	assert.NotNil(t, dedi[recordService.ColCheckOut])
}

// ===============================
// Registry: satu cache per operator lintas request
// ===============================

// blockingCommitter: tahan Commit di tengah jalan sampai dilepas, untuk
// mensimulasikan dua request sync yang tumpang tindih.
type blockingCommitter struct {
	entered chan struct{}
	release chan struct{}
	calls   int32
}

func newBlockingCommitter() *blockingCommitter {
	return &blockingCommitter{
		entered: make(chan struct{}, 2),
		release: make(chan struct{}),
	}
}

func (b *blockingCommitter) Commit(context.Context, uuid.UUID, []recordService.MergeWrite, CachedActions) error {
	atomic.AddInt32(&b.calls, 1)
	b.entered <- struct{}{}
	<-b.release
	return nil
}

func TestRegistryReusesCachePerOperator(t *testing.T) {
	reg := NewRegistry(kvstore.NewMemory(), &fakeCommitter{})
	op1 := uuid.New()
	op2 := uuid.New()

	assert.Same(t, reg.For(op1), reg.For(op1), "operator yang sama harus dapat instance yang sama")
	assert.NotSame(t, reg.For(op1), reg.For(op2))
}

func TestConcurrentSyncSecondRequestRejected(t *testing.T) {
	committer := newBlockingCommitter()
	reg := NewRegistry(kvstore.NewMemory(), committer)
	op := uuid.New()

	_, err := reg.For(op).Toggle("bob@absenku.app", "Bob", KindCheckIn)
	require.NoError(t, err)

	// request pertama: sync jalan, tertahan di dalam committer
	done := make(chan error, 1)
	go func() {
		_, err := reg.For(op).Sync(context.Background(), op)
		done <- err
	}()
	<-committer.entered

	// request kedua (handler lain, operator sama) harus bertemu flag syncing
	// yang sama dan ditolak, bukan ikut commit
	_, err = reg.For(op).Sync(context.Background(), op)
	require.ErrorIs(t, err, ErrSyncInFlight)

	close(committer.release)
	require.NoError(t, <-done)
	assert.EqualValues(t, 1, atomic.LoadInt32(&committer.calls), "committer hanya boleh jalan sekali")
}

func TestConcurrentTogglesNoLostUpdates(t *testing.T) {
	reg := NewRegistry(kvstore.NewMemory(), &fakeCommitter{})
	op := uuid.New()
	emails := []string{
		"a@absenku.app", "b@absenku.app", "c@absenku.app",
		"d@absenku.app", "e@absenku.app", "f@absenku.app",
	}

	var wg sync.WaitGroup
	for _, email := range emails {
		wg.Add(1)
		go func(email string) {
			defer wg.Done()
			_, err := reg.For(op).Toggle(email, email, KindCheckIn)
			assert.NoError(t, err)
		}(email)
	}
	wg.Wait()

	// load-modify-save yang terserialisasi: tidak ada aksi yang hilang
	n, err := reg.For(op).Count()
	require.NoError(t, err)
	assert.Equal(t, len(emails), n)
}

// ===============================
// Skenario: staging offline lalu commit sekali jalan
// ===============================

func TestScenarioOfflineStagingThenSync(t *testing.T) {
	c, committer, _, op := newTestCache(t)
	snap := dirService.Snapshot{Pending: map[string]bool{}, CompletedToday: map[string]bool{}}

	// pagi: operator stage masuk untuk Bob, server belum tahu
	actions, err := c.Toggle("bob@absenku.app", "Bob", KindCheckIn)
	require.NoError(t, err)
	st := Effective(actions["bob@absenku.app"], "bob@absenku.app", snap)
	assert.True(t, st.EffectiveCheckedIn)
	assert.True(t, st.PendingSync)

	// sore: stage pulang juga
	actions, err = c.Toggle("bob@absenku.app", "Bob", KindCheckOut)
	require.NoError(t, err)
	st = Effective(actions["bob@absenku.app"], "bob@absenku.app", snap)
	assert.True(t, st.LogicalCheckOut)
	assert.True(t, st.PendingSync)

	// sync: satu write untuk Bob berisi kedua instant + recorder
	synced, err := c.Sync(context.Background(), op)
	require.NoError(t, err)
	assert.Equal(t, 1, synced)
	require.Len(t, committer.writes, 1)
	fields := committer.writes[0].Fields
	assert.NotNil(t, fields[recordService.ColCheckIn])
	assert.NotNil(t, fields[recordService.ColCheckOut])
	assert.Equal(t, op, fields[recordService.ColCheckInRecorderUID])
	assert.Equal(t, op, fields[recordService.ColCheckOutRecorderUID])
	require.Contains(t, committer.entries, "bob@absenku.app")

	// setelah server menyusul (completed), tanpa cache: tidak ada pending lagi
	snap.CompletedToday["bob@absenku.app"] = true
	snap.Pending["bob@absenku.app"] = false
	st = Effective(nil, "bob@absenku.app", snap)
	assert.True(t, st.LogicalCheckOut)
	assert.False(t, st.PendingSync)
}
