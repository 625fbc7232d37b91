// file: internals/helpers/dbtime/date.go
package dbtime

import (
	"strings"
	"time"
)

// Format kanonik tanggal record: YYYY-MM-DD (waktu lokal)
const DateLayout = "2006-01-02"

// LocalDateString: tanggal lokal dari sebuah instant
func LocalDateString(t time.Time) string {
	return t.Local().Format(DateLayout)
}

// Today: tanggal lokal hari ini
func Today() string {
	return LocalDateString(time.Now())
}

// ValidDateString: cek format YYYY-MM-DD
func ValidDateString(s string) bool {
	_, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
	return err == nil
}

// ParseDate: YYYY-MM-DD → time.Time (00:00 lokal)
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
}
