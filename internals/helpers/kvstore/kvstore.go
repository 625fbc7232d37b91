// file: internals/helpers/kvstore/kvstore.go
//
// KV lokal ala localStorage: nilai JSON per key, dengan notifikasi perubahan
// supaya dua "tab" (goroutine/handler) melihat state yang sama.
package kvstore

// ChangeFunc dipanggil setiap kali sebuah key berubah (value nil = dihapus).
type ChangeFunc func(key string, value []byte)

type KeyValueStore interface {
	// Get: (value, found, error)
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
	// Subscribe mendaftarkan observer; kembalian dipanggil untuk berhenti.
	Subscribe(fn ChangeFunc) (unsubscribe func())
	Close() error
}
