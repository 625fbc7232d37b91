// internals/features/attendance/directory/service/watcher.go
package service

import (
	"context"
	"log"
	"time"

	"github.com/lib/pq"
)

const notifyChannel = "time_records_changed"

// Watcher menjembatani push dari Postgres (LISTEN/NOTIFY) ke Refresh
// direktori. Kalau NOTIFY tidak datang (listener putus, trigger belum ada),
// polling interval jadi jaring pengaman.
type Watcher struct {
	svc          *Service
	dsn          string
	pollInterval time.Duration

	listener *pq.Listener
	done     chan struct{}
}

func NewWatcher(svc *Service, dsn string) *Watcher {
	return &Watcher{
		svc:          svc,
		dsn:          dsn,
		pollInterval: 60 * time.Second,
		done:         make(chan struct{}),
	}
}

func (w *Watcher) Start() {
	w.listener = pq.NewListener(w.dsn, 10*time.Second, time.Minute,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				log.Printf("⚠️ pq listener: %v", err)
			}
		})
	if err := w.listener.Listen(notifyChannel); err != nil {
		log.Printf("⚠️ LISTEN %s gagal, hanya polling: %v", notifyChannel, err)
	}

	go w.loop()
}

func (w *Watcher) loop() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case n := <-w.listener.Notify:
			// n bisa nil saat reconnect; tetap refresh untuk menyusul
			// event yang terlewat.
			_ = n
			w.refresh()
		case <-ticker.C:
			w.refresh()
		}
	}
}

func (w *Watcher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := w.svc.Refresh(ctx); err != nil {
		log.Printf("⚠️ Refresh direktori gagal: %v", err)
	}
}

func (w *Watcher) Stop() {
	close(w.done)
	if w.listener != nil {
		_ = w.listener.Close()
	}
}
