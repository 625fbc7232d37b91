package dbtime

import (
	"fmt"
	"strings"
	"time"
)

// Clock: jam dinding "HH:MM" untuk edit manual (tanpa tanggal & zona)
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock: "HH:MM" (ketat, 24 jam). Input lain ditolak sebelum ada write.
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	// time.Parse menoleransi jam satu digit; kontrak kita dua digit
	if len(s) != 5 || s[2] != ':' {
		return Clock{}, fmt.Errorf("format jam tidak valid (harus HH:MM): %q", s)
	}
	tt, err := time.Parse("15:04", s)
	if err != nil {
		return Clock{}, fmt.Errorf("format jam tidak valid (harus HH:MM): %q", s)
	}
	return Clock{Hour: tt.Hour(), Minute: tt.Minute()}, nil
}

// At: pasang jam ke tanggal record (lokal) → instant utuh
func (cl Clock) At(date string) (time.Time, error) {
	d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), cl.Hour, cl.Minute, 0, 0, time.Local), nil
}

func (cl Clock) String() string {
	return fmt.Sprintf("%02d:%02d", cl.Hour, cl.Minute)
}
