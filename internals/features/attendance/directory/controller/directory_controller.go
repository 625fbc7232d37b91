// internals/features/attendance/directory/controller/directory_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"

	dirService "absenku_backend/internals/features/attendance/directory/service"
	helper "absenku_backend/internals/helpers"
)

type DirectoryController struct {
	Directory *dirService.Service
}

func NewDirectoryController(directory *dirService.Service) *DirectoryController {
	return &DirectoryController{Directory: directory}
}

// GET / — potret direktori: user + pending + completed-today
func (ctl *DirectoryController) Get(c *fiber.Ctx) error {
	snap := ctl.Directory.Snapshot()

	pending := make([]string, 0, len(snap.Pending))
	for email := range snap.Pending {
		pending = append(pending, email)
	}
	completed := make([]string, 0, len(snap.CompletedToday))
	for email := range snap.CompletedToday {
		completed = append(completed, email)
	}

	return helper.Success(c, "OK", fiber.Map{
		"users":           snap.Users,
		"pending":         pending,
		"completed_today": completed,
		"last_updated":    snap.TakenAt,
	})
}

// POST /refresh — tombol "perbarui daftar pengguna"
func (ctl *DirectoryController) Refresh(c *fiber.Ctx) error {
	if err := ctl.Directory.Refresh(c.UserContext()); err != nil {
		return helper.Error(c, fiber.StatusBadGateway, "Gagal memperbarui: "+err.Error())
	}
	return helper.Success(c, "Daftar pengguna diperbarui", fiber.Map{
		"last_updated": ctl.Directory.Snapshot().TakenAt,
	})
}
