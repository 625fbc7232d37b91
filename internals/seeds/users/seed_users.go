package users

import (
	"encoding/json"
	"log"
	"os"

	"absenku_backend/internals/constants"
	"absenku_backend/internals/features/users/user/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserSeed struct {
	Name      string `json:"name"`
	ClassID   string `json:"class_id"`
	SeatNo    string `json:"seat_no"`
	Email     string `json:"email"`
	StudentID string `json:"student_id"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

func SeedUsersFromJSON(db *gorm.DB, filePath string) {
	log.Println("📥 Membaca file user:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatalf("❌ Gagal membaca file JSON: %v", err)
	}

	var inputs []UserSeed
	if err := json.Unmarshal(file, &inputs); err != nil {
		log.Fatalf("❌ Gagal decode JSON: %v", err)
	}

	for _, data := range inputs {
		var existing model.UserModel
		if err := db.Where("user_email = ?", data.Email).First(&existing).Error; err == nil {
			log.Printf("ℹ️ User dengan email '%s' sudah ada, dilewati.", data.Email)
			continue
		}

		role := data.Role
		if !constants.IsValidRole(role) {
			role = constants.RoleUser
		}

		user := model.UserModel{
			UserName:      data.Name,
			UserClassID:   data.ClassID,
			UserSeatNo:    data.SeatNo,
			UserEmail:     data.Email,
			UserStudentID: data.StudentID,
			UserRole:      role,
		}

		if data.Password != "" {
			// 🔐 Hash password sebelum disimpan
			hashed, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
			if err != nil {
				log.Printf("❌ Gagal hash password untuk '%s': %v", data.Email, err)
				continue
			}
			h := string(hashed)
			user.UserPasswordHash = &h
		}

		if err := db.Create(&user).Error; err != nil {
			log.Printf("❌ Gagal seed user '%s': %v", data.Email, err)
			continue
		}
		log.Printf("✅ User '%s' (%s) dibuat.", data.Name, data.Email)
	}
}
