// internals/features/users/user/model/user_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserModel struct {
	// PK
	UserID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:user_id" json:"user_id"`

	// Identitas tampilan
	UserName    string `gorm:"type:varchar(80);not null;column:user_name" json:"user_name"`
	UserClassID string `gorm:"type:varchar(8);not null;column:user_class_id;index:idx_user_class_seat,priority:1" json:"user_class_id"`
	UserSeatNo  string `gorm:"type:varchar(4);not null;column:user_seat_no;index:idx_user_class_seat,priority:2" json:"user_seat_no"`

	// Kunci stabil lintas sistem
	UserEmail     string `gorm:"type:varchar(160);not null;uniqueIndex;column:user_email" json:"user_email"`
	UserStudentID string `gorm:"type:varchar(32);not null;column:user_student_id" json:"user_student_id"`

	// Role: visitor/user/clocker/admin/superadmin
	UserRole string `gorm:"type:varchar(16);not null;default:user;column:user_role" json:"user_role"`

	// Kredensial (nullable: akun Google tidak punya password lokal)
	UserPasswordHash *string `gorm:"type:text;column:user_password_hash" json:"-"`
	UserGoogleUID    *string `gorm:"type:varchar(64);column:user_google_uid" json:"-"`

	// Timestamps
	UserCreatedAt time.Time      `gorm:"column:user_created_at;autoCreateTime" json:"user_created_at"`
	UserUpdatedAt time.Time      `gorm:"column:user_updated_at;autoUpdateTime" json:"user_updated_at"`
	UserDeletedAt gorm.DeletedAt `gorm:"column:user_deleted_at;index" json:"user_deleted_at,omitempty"`
}

func (UserModel) TableName() string {
	return "users"
}

// SeatLabel: gabungan kelas+kursi, dipakai pencarian keypad ("10101")
func (m *UserModel) SeatLabel() string {
	return m.UserClassID + m.UserSeatNo
}
