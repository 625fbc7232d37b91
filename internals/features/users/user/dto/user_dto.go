// internals/features/users/user/dto/user_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"absenku_backend/internals/features/users/user/model"
)

type CreateUserRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=80"`
	ClassID   string `json:"class_id" validate:"required,min=1,max=8"`
	SeatNo    string `json:"seat_no" validate:"required,min=1,max=4"`
	Email     string `json:"email" validate:"required,email"`
	StudentID string `json:"student_id" validate:"required,max=32"`
	Password  string `json:"password" validate:"omitempty,min=8"`
}

type UpdateUserRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=80"`
	ClassID   *string `json:"class_id" validate:"omitempty,min=1,max=8"`
	SeatNo    *string `json:"seat_no" validate:"omitempty,min=1,max=4"`
	StudentID *string `json:"student_id" validate:"omitempty,max=32"`
	Role      *string `json:"role" validate:"omitempty,oneof=user clocker admin superadmin"`
}

type UserResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	ClassID   string    `json:"class_id"`
	SeatNo    string    `json:"seat_no"`
	Email     string    `json:"email"`
	StudentID string    `json:"student_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func FromModel(m *model.UserModel) UserResponse {
	return UserResponse{
		UserID:    m.UserID,
		Name:      m.UserName,
		ClassID:   m.UserClassID,
		SeatNo:    m.UserSeatNo,
		Email:     m.UserEmail,
		StudentID: m.UserStudentID,
		Role:      m.UserRole,
		CreatedAt: m.UserCreatedAt,
	}
}

func FromModels(ms []model.UserModel) []UserResponse {
	out := make([]UserResponse, 0, len(ms))
	for i := range ms {
		out = append(out, FromModel(&ms[i]))
	}
	return out
}
