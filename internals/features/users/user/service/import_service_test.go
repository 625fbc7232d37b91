package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"absenku_backend/internals/constants"
)

func TestParseUsersCSVHappyPath(t *testing.T) {
	csv := strings.Join([]string{
		"name,class_id,seat_no,email,student_id",
		"Budi Santoso,101,01,BUDI@Absenku.App,S1001",
		"Citra Lestari,101,02,citra@absenku.app,S1002",
	}, "\n")

	users, rowErrs, err := ParseUsersCSV(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, users, 2)

	assert.Equal(t, "Budi Santoso", users[0].UserName)
	assert.Equal(t, "101", users[0].UserClassID)
	assert.Equal(t, "01", users[0].UserSeatNo)
	assert.Equal(t, "budi@absenku.app", users[0].UserEmail, "email dinormalkan lowercase")
	assert.Equal(t, "S1001", users[0].UserStudentID)
	assert.Equal(t, constants.RoleUser, users[0].UserRole)
}

func TestParseUsersCSVBadHeader(t *testing.T) {
	csv := "nama,kelas,kursi,surel,nis\nBudi,101,01,budi@x,S1"
	_, _, err := ParseUsersCSV(strings.NewReader(csv))
	require.Error(t, err)
}

func TestParseUsersCSVEmpty(t *testing.T) {
	_, _, err := ParseUsersCSV(strings.NewReader(""))
	require.Error(t, err)
}

func TestParseUsersCSVRowErrorsReportedPerLine(t *testing.T) {
	csv := strings.Join([]string{
		"name,class_id,seat_no,email,student_id",
		",101,01,kosong@absenku.app,S1",          // baris 2: name kosong
		"Dina,,,dina@absenku.app,S2",             // baris 3: class/seat kosong
		"Eko,101,03,bukan-email,S3",              // baris 4: email tidak valid
		"Fajar,101,04,fajar@absenku.app,S4",      // baris 5: ok
		"Fajar Dua,101,05,fajar@absenku.app,S5",  // baris 6: email duplikat baris 5
	}, "\n")

	users, rowErrs, err := ParseUsersCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "fajar@absenku.app", users[0].UserEmail)

	require.Len(t, rowErrs, 4)
	lines := make([]int, 0, len(rowErrs))
	for _, re := range rowErrs {
		lines = append(lines, re.Line)
	}
	assert.Equal(t, []int{2, 3, 4, 6}, lines)
	assert.Contains(t, rowErrs[3].Message, "duplikat")
}

func TestParseUsersCSVShortRow(t *testing.T) {
	// encoding/csv menolak jumlah kolom yang berbeda dari header sebagai
	// error baris; tetap dilaporkan per nomor baris, bukan menggagalkan file
	csv := strings.Join([]string{
		"name,class_id,seat_no,email,student_id",
		"Gita,101",
		"Hadi,101,06,hadi@absenku.app,S6",
	}, "\n")

	users, rowErrs, err := ParseUsersCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Len(t, rowErrs, 1)
	assert.Equal(t, 2, rowErrs[0].Line)
}
