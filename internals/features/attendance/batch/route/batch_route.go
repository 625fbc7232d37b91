// internals/features/attendance/batch/route/batch_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	batchController "absenku_backend/internals/features/attendance/batch/controller"
	dirService "absenku_backend/internals/features/attendance/directory/service"
	"absenku_backend/internals/helpers/kvstore"
)

// OperatorBatchRoutes: group /api/o — batch check-in/out offline-first
func OperatorBatchRoutes(r fiber.Router, db *gorm.DB, kv kvstore.KeyValueStore, directory *dirService.Service) {
	ctl := batchController.NewBatchController(db, kv, directory)

	r.Get("/batch", ctl.List)
	r.Post("/batch/toggle", ctl.Toggle)
	r.Post("/batch/sync", ctl.Sync)
	r.Post("/batch/clear", ctl.Clear)
}
