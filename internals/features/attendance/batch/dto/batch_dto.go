// internals/features/attendance/batch/dto/batch_dto.go
package dto

import (
	batchService "absenku_backend/internals/features/attendance/batch/service"
)

type ToggleRequest struct {
	UserEmail string `json:"user_email" validate:"required,email"`
	Kind      string `json:"kind" validate:"required,oneof=check_in check_out"`
}

type ClearRequest struct {
	Confirm bool `json:"confirm"`
}

// BatchRow: satu baris tabel batch = user + keadaan efektif + niat lokal.
type BatchRow struct {
	UserEmail string                      `json:"user_email"`
	UserName  string                      `json:"user_name"`
	ClassID   string                      `json:"class_id"`
	SeatNo    string                      `json:"seat_no"`
	Staged    *batchService.CachedAction  `json:"staged,omitempty"`
	State     batchService.EffectiveState `json:"state"`
}
