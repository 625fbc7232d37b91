// internals/features/attendance/batch/controller/batch_controller.go
package controller

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	batchDTO "absenku_backend/internals/features/attendance/batch/dto"
	batchService "absenku_backend/internals/features/attendance/batch/service"
	dirService "absenku_backend/internals/features/attendance/directory/service"
	helper "absenku_backend/internals/helpers"
	"absenku_backend/internals/helpers/kvstore"
	authmw "absenku_backend/internals/middlewares/auth"
)

type BatchController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Registry  *batchService.Registry
	Directory *dirService.Service
}

func NewBatchController(db *gorm.DB, kv kvstore.KeyValueStore, directory *dirService.Service) *BatchController {
	return &BatchController{
		DB:        db,
		Validator: validator.New(),
		Registry:  batchService.NewRegistry(kv, batchService.NewGormCommitter(db)),
		Directory: directory,
	}
}

// cacheFor: cache batch milik operator yang sedang login. Lewat registry,
// bukan instance baru: request paralel operator yang sama harus bertemu
// flag syncing dan mutex yang sama.
func (ctl *BatchController) cacheFor(c *fiber.Ctx) (*batchService.Cache, uuid.UUID, error) {
	operatorUID := authmw.GetUserID(c)
	if operatorUID == uuid.Nil {
		return nil, uuid.Nil, batchService.ErrNoOperator
	}
	return ctl.Registry.For(operatorUID), operatorUID, nil
}

func mapBatchErr(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, batchService.ErrNoOperator):
		return helper.Error(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, batchService.ErrSyncInFlight):
		return helper.ErrorWithDetails(c, fiber.StatusConflict, err.Error(), fiber.Map{"silent": true})
	case errors.Is(err, batchService.ErrEmptyCache):
		return helper.Error(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, batchService.ErrBadKind):
		return helper.Error(c, fiber.StatusBadRequest, err.Error())
	default:
		return helper.Error(c, fiber.StatusBadGateway, "Sinkronisasi gagal: "+err.Error())
	}
}

// ===============================
// GET / — tabel batch: semua user + enablement tombol + niat lokal
// ===============================
func (ctl *BatchController) List(c *fiber.Ctx) error {
	cache, _, err := ctl.cacheFor(c)
	if err != nil {
		return mapBatchErr(c, err)
	}
	actions, err := cache.Load()
	if err != nil {
		return mapBatchErr(c, err)
	}

	snap := ctl.Directory.Snapshot()
	search := strings.ToLower(strings.TrimSpace(c.Query("search")))

	rows := make([]batchDTO.BatchRow, 0, len(snap.Users))
	for i := range snap.Users {
		u := &snap.Users[i]
		if search != "" {
			haystack := strings.ToLower(u.UserName + " " + u.SeatLabel())
			if !strings.Contains(haystack, search) {
				continue
			}
		}
		entry := actions[u.UserEmail]
		rows = append(rows, batchDTO.BatchRow{
			UserEmail: u.UserEmail,
			UserName:  u.UserName,
			ClassID:   u.UserClassID,
			SeatNo:    u.UserSeatNo,
			Staged:    entry,
			State:     batchService.Effective(entry, u.UserEmail, snap),
		})
	}

	return helper.Success(c, "OK", fiber.Map{
		"rows":         rows,
		"staged_count": len(actions),
		"last_updated": snap.TakenAt,
	})
}

// ===============================
// POST /toggle — stage / un-stage satu aksi
// ===============================
func (ctl *BatchController) Toggle(c *fiber.Ctx) error {
	var req batchDTO.ToggleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	cache, _, err := ctl.cacheFor(c)
	if err != nil {
		return mapBatchErr(c, err)
	}

	email := strings.ToLower(strings.TrimSpace(req.UserEmail))
	snap := ctl.Directory.Snapshot()
	label := email
	for i := range snap.Users {
		if snap.Users[i].UserEmail == email {
			label = snap.Users[i].UserName
			break
		}
	}

	actions, err := cache.Toggle(email, label, batchService.Kind(req.Kind))
	if err != nil {
		return mapBatchErr(c, err)
	}

	return helper.Success(c, "OK", fiber.Map{
		"staged":       actions[email], // nil = sudah bersih
		"staged_count": len(actions),
		"state":        batchService.Effective(actions[email], email, snap),
	})
}

// ===============================
// POST /sync — commit semua niat dalam satu batch atomik
// ===============================
func (ctl *BatchController) Sync(c *fiber.Ctx) error {
	cache, operatorUID, err := ctl.cacheFor(c)
	if err != nil {
		return mapBatchErr(c, err)
	}

	n, err := cache.Sync(c.UserContext(), operatorUID)
	if err != nil {
		return mapBatchErr(c, err)
	}

	return helper.Success(c, fmt.Sprintf("Berhasil sinkron %d catatan!", n), fiber.Map{
		"synced_count": n,
	})
}

// ===============================
// POST /clear — buang cache (destruktif, wajib confirm)
// ===============================
func (ctl *BatchController) Clear(c *fiber.Ctx) error {
	var req batchDTO.ClearRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if !req.Confirm {
		return helper.Error(c, fiber.StatusBadRequest, "Operasi destruktif: kirim confirm=true")
	}

	cache, _, err := ctl.cacheFor(c)
	if err != nil {
		return mapBatchErr(c, err)
	}
	if err := cache.Clear(); err != nil {
		return mapBatchErr(c, err)
	}
	return helper.Success(c, "Semua aksi tertunda dibuang", nil)
}
