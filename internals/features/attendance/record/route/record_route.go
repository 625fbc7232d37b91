// internals/features/attendance/record/route/record_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dirService "absenku_backend/internals/features/attendance/directory/service"
	recController "absenku_backend/internals/features/attendance/record/controller"
)

// UserRecordRoutes: group /api/u — riwayat milik sendiri
func UserRecordRoutes(r fiber.Router, db *gorm.DB, directory *dirService.Service) {
	ctl := recController.NewRecordController(db, directory)

	r.Get("/records/me", ctl.MyRecords)
}

// OperatorRecordRoutes: group /api/o — alur scan + koreksi manual
func OperatorRecordRoutes(r fiber.Router, db *gorm.DB, directory *dirService.Service) {
	ctl := recController.NewRecordController(db, directory)

	r.Post("/attendance/scan", ctl.Scan)
	r.Post("/attendance/confirm", ctl.Confirm)
	r.Post("/attendance/cancel", ctl.Cancel)

	r.Get("/records/users/:email", ctl.UserRecords)
	r.Put("/records/edit", ctl.ManualEdit)
	r.Put("/records/deduction", ctl.SetDeduction)
}

// AdminRecordRoutes: group /api/a — hapus record + laporan
func AdminRecordRoutes(r fiber.Router, db *gorm.DB, directory *dirService.Service) {
	ctl := recController.NewRecordController(db, directory)
	rpt := recController.NewReportController(db)

	r.Delete("/records", ctl.Delete)
	r.Get("/reports/weekly", rpt.Weekly)
	r.Get("/reports/monthly", rpt.Monthly)
}
