// internals/features/attendance/batch/service/registry.go
package service

import (
	"sync"

	"github.com/google/uuid"

	"absenku_backend/internals/helpers/kvstore"
)

// Registry: satu Cache hidup per operator. Flag syncing dan mutex toggle
// hanya berarti kalau semua request operator yang sama memakai instance yang
// sama; instance baru per request = dua request sync paralel lolos dua-duanya.
type Registry struct {
	kv        kvstore.KeyValueStore
	committer Committer

	mu     sync.Mutex
	caches map[uuid.UUID]*Cache
}

func NewRegistry(kv kvstore.KeyValueStore, committer Committer) *Registry {
	return &Registry{
		kv:        kv,
		committer: committer,
		caches:    make(map[uuid.UUID]*Cache),
	}
}

// For: ambil cache milik operator; dibuat sekali lalu dipakai ulang.
func (r *Registry) For(operatorUID uuid.UUID) *Cache {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.caches[operatorUID]
	if !ok {
		c = NewCache(r.kv, r.committer, operatorUID)
		r.caches[operatorUID] = c
	}
	return c
}
