package kvstore

import (
	"database/sql"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore: KV persisten satu tabel di file SQLite.
// Subscriber di-notify in-process setelah tiap write berhasil.
type SQLiteStore struct {
	db *sql.DB

	mu   sync.Mutex
	subs map[int]ChangeFunc
	next int
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	// satu koneksi saja; SQLite tidak suka writer paralel
	db.SetMaxOpenConns(1)

	const schema = `CREATE TABLE IF NOT EXISTS kv (
		k TEXT PRIMARY KEY,
		v BLOB NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, subs: make(map[int]ChangeFunc)}, nil
}

func (s *SQLiteStore) Get(key string) ([]byte, bool, error) {
	var v []byte
	err := s.db.QueryRow(`SELECT v FROM kv WHERE k = ?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (s *SQLiteStore) Set(key string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (k, v, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(k) DO UPDATE SET v = excluded.v, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	s.notify(key, value)
	return nil
}

func (s *SQLiteStore) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE k = ?`, key); err != nil {
		return err
	}
	s.notify(key, nil)
	return nil
}

func (s *SQLiteStore) Subscribe(fn ChangeFunc) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *SQLiteStore) notify(key string, value []byte) {
	s.mu.Lock()
	fns := make([]ChangeFunc, 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(key, value)
	}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
