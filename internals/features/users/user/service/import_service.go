// internals/features/users/user/service/import_service.go
package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"absenku_backend/internals/constants"
	"absenku_backend/internals/features/users/user/model"
)

// Kolom CSV impor: name,class_id,seat_no,email,student_id (header wajib).
var csvHeader = []string{"name", "class_id", "seat_no", "email", "student_id"}

type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ParseUsersCSV: validasi per baris; baris salah dilaporkan dengan nomor
// barisnya, baris benar dikembalikan sebagai model siap-insert.
// Commit all-or-nothing adalah urusan controller (transaksi).
func ParseUsersCSV(r io.Reader) ([]model.UserModel, []RowError, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("CSV kosong atau tidak terbaca: %w", err)
	}
	if !headerMatches(header) {
		return nil, nil, fmt.Errorf("header harus: %s", strings.Join(csvHeader, ","))
	}

	var users []model.UserModel
	var rowErrs []RowError
	seen := map[string]int{} // email → baris pertama

	line := 1
	for {
		line++
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Message: err.Error()})
			continue
		}
		if len(rec) < len(csvHeader) {
			rowErrs = append(rowErrs, RowError{Line: line, Message: "kolom kurang"})
			continue
		}

		name := strings.TrimSpace(rec[0])
		classID := strings.TrimSpace(rec[1])
		seatNo := strings.TrimSpace(rec[2])
		email := strings.ToLower(strings.TrimSpace(rec[3]))
		studentID := strings.TrimSpace(rec[4])

		switch {
		case name == "":
			rowErrs = append(rowErrs, RowError{Line: line, Message: "name kosong"})
			continue
		case classID == "" || seatNo == "":
			rowErrs = append(rowErrs, RowError{Line: line, Message: "class_id/seat_no kosong"})
			continue
		case email == "" || !strings.Contains(email, "@"):
			rowErrs = append(rowErrs, RowError{Line: line, Message: "email tidak valid"})
			continue
		}
		if first, dup := seen[email]; dup {
			rowErrs = append(rowErrs, RowError{Line: line, Message: fmt.Sprintf("email duplikat (baris %d)", first)})
			continue
		}
		seen[email] = line

		users = append(users, model.UserModel{
			UserName:      name,
			UserClassID:   classID,
			UserSeatNo:    seatNo,
			UserEmail:     email,
			UserStudentID: studentID,
			UserRole:      constants.RoleUser,
		})
	}

	return users, rowErrs, nil
}

func headerMatches(header []string) bool {
	if len(header) < len(csvHeader) {
		return false
	}
	for i, want := range csvHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return false
		}
	}
	return true
}
