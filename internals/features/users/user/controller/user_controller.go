// internals/features/users/user/controller/user_controller.go
package controller

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"absenku_backend/internals/configs"
	"absenku_backend/internals/constants"
	userDTO "absenku_backend/internals/features/users/user/dto"
	userModel "absenku_backend/internals/features/users/user/model"
	userService "absenku_backend/internals/features/users/user/service"
	helper "absenku_backend/internals/helpers"
	authmw "absenku_backend/internals/middlewares/auth"
)

type UserController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db, Validator: validator.New()}
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") ||
		strings.Contains(s, "violates unique constraint") ||
		strings.Contains(s, "unique constraint") ||
		strings.Contains(s, "sqlstate 23505")
}

// ===============================
// GET / — list + cari (nama / kelas+kursi, gaya keypad "10101")
// ===============================
func (ctl *UserController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 50, 200)
	search := strings.ToLower(strings.TrimSpace(c.Query("search")))

	tx := ctl.DB.WithContext(c.UserContext()).Model(&userModel.UserModel{})
	if search != "" {
		tx = tx.Where(
			"LOWER(user_name) LIKE ? OR LOWER(user_class_id || user_seat_no) LIKE ?",
			"%"+search+"%", search+"%",
		)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusBadGateway, err.Error())
	}

	var rows []userModel.UserModel
	if err := tx.Order("user_class_id, user_seat_no").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusBadGateway, err.Error())
	}

	return helper.Success(c, "OK", fiber.Map{
		"users":      userDTO.FromModels(rows),
		"pagination": helper.BuildPagination(paging, total, len(rows)),
	})
}

// ===============================
// POST / — buat user baru
// ===============================
func (ctl *UserController) Create(c *fiber.Ctx) error {
	var req userDTO.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	user := userModel.UserModel{
		UserName:      strings.TrimSpace(req.Name),
		UserClassID:   strings.TrimSpace(req.ClassID),
		UserSeatNo:    strings.TrimSpace(req.SeatNo),
		UserEmail:     strings.ToLower(strings.TrimSpace(req.Email)),
		UserStudentID: strings.TrimSpace(req.StudentID),
		UserRole:      constants.RoleUser,
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "Gagal hash password")
		}
		h := string(hash)
		user.UserPasswordHash = &h
	}

	if err := ctl.DB.WithContext(c.UserContext()).Create(&user).Error; err != nil {
		if isDuplicateKey(err) {
			return helper.Error(c, fiber.StatusConflict, "Email sudah terdaftar")
		}
		return helper.Error(c, fiber.StatusBadGateway, err.Error())
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "User dibuat", userDTO.FromModel(&user))
}

// ===============================
// PUT /:email — update profil / role
// ===============================
func (ctl *UserController) Update(c *fiber.Ctx) error {
	email := strings.ToLower(strings.TrimSpace(c.Params("email")))

	var req userDTO.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["user_name"] = strings.TrimSpace(*req.Name)
	}
	if req.ClassID != nil {
		updates["user_class_id"] = strings.TrimSpace(*req.ClassID)
	}
	if req.SeatNo != nil {
		updates["user_seat_no"] = strings.TrimSpace(*req.SeatNo)
	}
	if req.StudentID != nil {
		updates["user_student_id"] = strings.TrimSpace(*req.StudentID)
	}
	if req.Role != nil {
		// pemberian role admin ke atas hanya oleh superadmin
		if (*req.Role == constants.RoleAdmin || *req.Role == constants.RoleSuperAdmin) &&
			authmw.GetUserRole(c) != constants.RoleSuperAdmin {
			return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorSuper("pemberian role admin"))
		}
		updates["user_role"] = *req.Role
	}
	if len(updates) == 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Tidak ada field yang diubah")
	}

	res := ctl.DB.WithContext(c.UserContext()).
		Model(&userModel.UserModel{}).
		Where("user_email = ?", email).
		Updates(updates)
	if res.Error != nil {
		return helper.Error(c, fiber.StatusBadGateway, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "User tidak ditemukan")
	}

	return helper.Success(c, "User diperbarui", nil)
}

// ===============================
// DELETE /:email — hapus user (destruktif, wajib confirm)
// ===============================
func (ctl *UserController) Delete(c *fiber.Ctx) error {
	email := strings.ToLower(strings.TrimSpace(c.Params("email")))
	if c.Query("confirm") != "true" {
		return helper.Error(c, fiber.StatusBadRequest, "Operasi destruktif: tambahkan confirm=true")
	}

	res := ctl.DB.WithContext(c.UserContext()).
		Where("user_email = ?", email).
		Delete(&userModel.UserModel{})
	if res.Error != nil {
		return helper.Error(c, fiber.StatusBadGateway, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "User tidak ditemukan")
	}
	return helper.Success(c, "User dihapus", nil)
}

// ===============================
// POST /import — CSV name,class_id,seat_no,email,student_id
// ===============================
func (ctl *UserController) ImportCSV(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Lampirkan file CSV di field 'file'")
	}
	f, err := fileHeader.Open()
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "File tidak terbaca")
	}
	defer f.Close()

	users, rowErrs, err := userService.ParseUsersCSV(f)
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, err.Error())
	}
	if len(rowErrs) > 0 {
		return helper.ErrorWithDetails(c, fiber.StatusBadRequest,
			fmt.Sprintf("%d baris bermasalah, tidak ada yang diimpor", len(rowErrs)), rowErrs)
	}
	if len(users) == 0 {
		return helper.Error(c, fiber.StatusBadRequest, "CSV tidak berisi baris data")
	}

	// all-or-nothing
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&users).Error
	})
	if err != nil {
		if isDuplicateKey(err) {
			return helper.Error(c, fiber.StatusConflict, "Ada email yang sudah terdaftar; tidak ada yang diimpor")
		}
		return helper.Error(c, fiber.StatusBadGateway, err.Error())
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated,
		fmt.Sprintf("%d user diimpor", len(users)),
		fiber.Map{"imported_count": len(users)})
}

// ===============================
// GET /me/qr — QR profil (PNG) berisi URL /r/<email>
// ===============================
func (ctl *UserController) MyQR(c *fiber.Ctx) error {
	email := authmw.GetUserEmail(c)
	if email == "" {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	return writeQR(c, email)
}

// GET /:email/qr — QR user lain (operator; untuk cetak kartu)
func (ctl *UserController) UserQR(c *fiber.Ctx) error {
	email := strings.ToLower(strings.TrimSpace(c.Params("email")))
	if email == "" {
		return helper.Error(c, fiber.StatusBadRequest, "Email wajib diisi")
	}

	var user userModel.UserModel
	err := ctl.DB.WithContext(c.UserContext()).
		Where("user_email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.Error(c, fiber.StatusNotFound, "User tidak ditemukan")
	}
	if err != nil {
		return helper.Error(c, fiber.StatusBadGateway, err.Error())
	}
	return writeQR(c, user.UserEmail)
}

func writeQR(c *fiber.Ctx, email string) error {
	url := strings.TrimRight(configs.QRBaseURL, "/") + "/r/" + email
	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal membuat QR")
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}
