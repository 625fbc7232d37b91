// internals/features/attendance/record/controller/record_controller.go
package controller

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dirService "absenku_backend/internals/features/attendance/directory/service"
	recDTO "absenku_backend/internals/features/attendance/record/dto"
	recModel "absenku_backend/internals/features/attendance/record/model"
	recService "absenku_backend/internals/features/attendance/record/service"
	userModel "absenku_backend/internals/features/users/user/model"
	helper "absenku_backend/internals/helpers"
	"absenku_backend/internals/helpers/dbtime"
	authmw "absenku_backend/internals/middlewares/auth"
)

type RecordController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Engine    *recService.Engine
	Guard     *recService.ScanGuard
	Directory *dirService.Service
}

func NewRecordController(db *gorm.DB, directory *dirService.Service) *RecordController {
	return &RecordController{
		DB:        db,
		Validator: validator.New(),
		Engine:    recService.NewEngine(recService.NewGormStore(db)),
		Guard:     recService.NewScanGuard(2 * time.Minute),
		Directory: directory,
	}
}

// mapEngineErr: taksonomi error → status HTTP
func mapEngineErr(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, recService.ErrScanInFlight):
		// guard rejection = no-op, bukan error keras; client diharapkan diam
		return helper.ErrorWithDetails(c, fiber.StatusConflict, err.Error(), fiber.Map{"silent": true})
	case errors.Is(err, recService.ErrAlreadyCheckedIn),
		errors.Is(err, recService.ErrAlreadyCheckedOut),
		errors.Is(err, recService.ErrNoCheckIn),
		errors.Is(err, recService.ErrBrokenRecord):
		return helper.Error(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, recService.ErrRecordMissing):
		return helper.Error(c, fiber.StatusNotFound, err.Error())
	default:
		return helper.Error(c, fiber.StatusBadGateway, "Store bermasalah: "+err.Error())
	}
}

// findUser: email langsung, atau pasangan kelas+kursi (keypad "10101")
func (ctl *RecordController) findUser(c *fiber.Ctx, req recDTO.ScanRequest) (*userModel.UserModel, error) {
	tx := ctl.DB.WithContext(c.UserContext())
	var user userModel.UserModel
	var err error
	switch {
	case req.UserEmail != "":
		err = tx.Where("user_email = ?", strings.ToLower(strings.TrimSpace(req.UserEmail))).First(&user).Error
	case req.ClassID != "" && req.SeatNo != "":
		err = tx.Where("user_class_id = ? AND user_seat_no = ?", req.ClassID, req.SeatNo).First(&user).Error
	default:
		return nil, fiber.NewError(fiber.StatusBadRequest, "Isi user_email atau class_id+seat_no")
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "Pengguna tidak ditemukan")
	}
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return &user, nil
}

// ===============================
// POST /scan — putuskan aksi yang sah hari ini
// ===============================
func (ctl *RecordController) Scan(c *fiber.Ctx) error {
	var req recDTO.ScanRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	user, err := ctl.findUser(c, req)
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helper.Error(c, fe.Code, fe.Message)
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	today := dbtime.Today()
	action, rec, err := ctl.Engine.DecideFor(c.UserContext(), user.UserEmail, today)
	if err != nil {
		return mapEngineErr(c, err)
	}

	resp := recDTO.ScanResponse{
		Action:    string(action),
		UserName:  user.UserName,
		UserEmail: user.UserEmail,
		ClassID:   user.UserClassID,
		SeatNo:    user.UserSeatNo,
		Record:    recDTO.FromModel(rec),
	}

	// terminal untuk hari ini: tidak ada jalur tulis, tampilkan info saja
	if action == recService.ActionAlreadyComplete {
		return helper.Success(c, "Hari ini sudah lengkap", resp)
	}

	token, err := ctl.Guard.Begin(user.UserEmail, action)
	if err != nil {
		return mapEngineErr(c, err)
	}
	resp.ScanToken = &token
	return helper.Success(c, "Menunggu konfirmasi", resp)
}

// ===============================
// POST /confirm — jalankan aksi yang sudah diputuskan
// ===============================
func (ctl *RecordController) Confirm(c *fiber.Ctx) error {
	var req recDTO.ConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	email, action, ok := ctl.Guard.Claim(req.ScanToken)
	if !ok {
		return helper.Error(c, fiber.StatusConflict, "Token scan tidak berlaku (kadaluarsa/sudah dipakai)")
	}

	// write selesai (sukses atau gagal) → guard dilepas, scan berikutnya boleh
	defer ctl.Guard.Finish(req.ScanToken)

	err := ctl.Engine.Apply(c.UserContext(), action, email, dbtime.Today(), time.Now(), authmw.GetUserID(c))
	if err != nil {
		return mapEngineErr(c, err)
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = ctl.Directory.Refresh(ctx)
	}()

	verb := "Masuk"
	if action == recService.ActionCheckOut {
		verb = "Pulang"
	}
	return helper.Success(c, verb+" tercatat", fiber.Map{
		"user_email": email,
		"action":     action,
	})
}

// ===============================
// POST /cancel — operator batal, tanpa write
// ===============================
func (ctl *RecordController) Cancel(c *fiber.Ctx) error {
	var req recDTO.CancelRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	ctl.Guard.Cancel(req.ScanToken)
	return helper.Success(c, "Dibatalkan", nil)
}

// ===============================
// GET /me — riwayat milik sendiri (paged, terbaru dulu)
// ===============================
func (ctl *RecordController) MyRecords(c *fiber.Ctx) error {
	email := authmw.GetUserEmail(c)
	if email == "" {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	return ctl.listRecords(c, email)
}

// GET /users/:email — riwayat user lain (operator)
func (ctl *RecordController) UserRecords(c *fiber.Ctx) error {
	email := strings.ToLower(strings.TrimSpace(c.Params("email")))
	if email == "" {
		return helper.Error(c, fiber.StatusBadRequest, "Email wajib diisi")
	}
	return ctl.listRecords(c, email)
}

func (ctl *RecordController) listRecords(c *fiber.Ctx, email string) error {
	paging := helper.ResolvePaging(c, 20, 100)

	tx := ctl.DB.WithContext(c.UserContext()).
		Model(&recModel.TimeRecordModel{}).
		Where("time_record_user_email = ?", email)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusBadGateway, err.Error())
	}

	var rows []recModel.TimeRecordModel
	if err := tx.Order("time_record_date DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusBadGateway, err.Error())
	}

	return helper.Success(c, "OK", fiber.Map{
		"records":    recDTO.FromModels(rows),
		"pagination": helper.BuildPagination(paging, total, len(rows)),
	})
}

// ===============================
// PUT /edit — koreksi jam manual (HH:MM), boleh retroaktif
// ===============================
func (ctl *RecordController) ManualEdit(c *fiber.Ctx) error {
	var req recDTO.ManualEditRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if !dbtime.ValidDateString(req.Date) {
		return helper.Error(c, fiber.StatusBadRequest, "Tanggal harus YYYY-MM-DD")
	}
	if req.CheckIn == nil && req.CheckOut == nil {
		return helper.Error(c, fiber.StatusBadRequest, "Tidak ada field yang diubah")
	}

	// validasi HH:MM SEBELUM write apa pun
	fields := map[string]any{}
	recorderUID := authmw.GetUserID(c)
	if req.CheckIn != nil {
		cl, err := dbtime.ParseClock(*req.CheckIn)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, err.Error())
		}
		at, err := cl.At(req.Date)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, err.Error())
		}
		fields[recService.ColCheckIn] = at
		fields[recService.ColCheckInRecorderUID] = recorderUID
	}
	if req.CheckOut != nil {
		cl, err := dbtime.ParseClock(*req.CheckOut)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, err.Error())
		}
		at, err := cl.At(req.Date)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, err.Error())
		}
		fields[recService.ColCheckOut] = at
		fields[recService.ColCheckOutRecorderUID] = recorderUID
	}

	store := recService.NewGormStore(ctl.DB)

	// checkOut tanpa checkIn tetap transisi ilegal di jalur edit
	if req.CheckOut != nil && req.CheckIn == nil {
		rec, err := store.Get(c.UserContext(), req.UserEmail, req.Date)
		if err != nil {
			return mapEngineErr(c, err)
		}
		if rec == nil || rec.TimeRecordCheckIn == nil {
			return mapEngineErr(c, recService.ErrNoCheckIn)
		}
	}

	if err := store.MergeSet(c.UserContext(), recService.MergeWrite{
		UserEmail: req.UserEmail,
		Date:      req.Date,
		Fields:    fields,
	}); err != nil {
		return mapEngineErr(c, err)
	}

	return helper.Success(c, "Record diperbarui", nil)
}

// ===============================
// PUT /deduction — potongan menit + catatan
// ===============================
func (ctl *RecordController) SetDeduction(c *fiber.Ctx) error {
	var req recDTO.DeductionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if !dbtime.ValidDateString(req.Date) {
		return helper.Error(c, fiber.StatusBadRequest, "Tanggal harus YYYY-MM-DD")
	}

	store := recService.NewGormStore(ctl.DB)
	// field-level merge: edit potongan tidak menyentuh kolom jam, jadi tidak
	// bisa menimpa check-out yang sedang berlangsung (last-write-wins hanya
	// pada kolom yang sama)
	if err := store.Update(c.UserContext(), recService.MergeWrite{
		UserEmail: req.UserEmail,
		Date:      req.Date,
		Fields: map[string]any{
			recService.ColDeductionMinutes: req.DeductionMinutes,
			recService.ColNotes:            req.Notes,
		},
	}); err != nil {
		return mapEngineErr(c, err)
	}

	return helper.Success(c, "Potongan diperbarui", nil)
}

// ===============================
// DELETE / — hapus record (destruktif, wajib confirm)
// ===============================
func (ctl *RecordController) Delete(c *fiber.Ctx) error {
	email := strings.ToLower(strings.TrimSpace(c.Query("user_email")))
	date := strings.TrimSpace(c.Query("date"))
	if email == "" || !dbtime.ValidDateString(date) {
		return helper.Error(c, fiber.StatusBadRequest, "user_email dan date (YYYY-MM-DD) wajib diisi")
	}
	if c.Query("confirm") != "true" {
		return helper.Error(c, fiber.StatusBadRequest, "Operasi destruktif: tambahkan confirm=true")
	}

	res := ctl.DB.WithContext(c.UserContext()).
		Where("time_record_user_email = ? AND time_record_date = ?", email, date).
		Delete(&recModel.TimeRecordModel{})
	if res.Error != nil {
		return helper.Error(c, fiber.StatusBadGateway, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Record tidak ditemukan")
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = ctl.Directory.Refresh(ctx)
	}()
	return helper.Success(c, "Record dihapus", nil)
}
