package dbtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    Clock
		wantErr bool
	}{
		{in: "07:30", want: Clock{7, 30}},
		{in: "00:00", want: Clock{0, 0}},
		{in: "23:59", want: Clock{23, 59}},
		{in: " 16:05 ", want: Clock{16, 5}}, // spasi pinggir ditoleransi
		{in: "24:00", wantErr: true},
		{in: "7:30", wantErr: true}, // wajib dua digit
		{in: "07:60", wantErr: true},
		{in: "07.30", wantErr: true},
		{in: "pagi", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClockAt(t *testing.T) {
	cl, err := ParseClock("07:30")
	require.NoError(t, err)

	got, err := cl.At("2026-08-28")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 28, 7, 30, 0, 0, time.Local), got)

	_, err = cl.At("28-08-2026")
	require.Error(t, err)
}

func TestClockString(t *testing.T) {
	assert.Equal(t, "07:05", Clock{7, 5}.String())
}

func TestDateHelpers(t *testing.T) {
	assert.True(t, ValidDateString("2026-08-28"))
	assert.True(t, ValidDateString(" 2026-08-28 "))
	assert.False(t, ValidDateString("2026-8-28"))
	assert.False(t, ValidDateString("28/08/2026"))
	assert.False(t, ValidDateString(""))

	d, err := ParseDate("2026-08-28")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-28", LocalDateString(d))

	// Today konsisten dengan format kanonik
	assert.True(t, ValidDateString(Today()))
}
