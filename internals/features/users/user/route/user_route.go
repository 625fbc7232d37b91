// internals/features/users/user/route/user_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userController "absenku_backend/internals/features/users/user/controller"
)

// UserSelfRoutes: group /api/u — milik user login
func UserSelfRoutes(r fiber.Router, db *gorm.DB) {
	ctl := userController.NewUserController(db)

	r.Get("/users/me/qr", ctl.MyQR)
}

// OperatorUserRoutes: group /api/o — pencarian & QR untuk kartu
func OperatorUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := userController.NewUserController(db)

	r.Get("/users", ctl.List)
	r.Get("/users/:email/qr", ctl.UserQR)
}

// AdminUserRoutes: group /api/a — CRUD + impor CSV
func AdminUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := userController.NewUserController(db)

	r.Get("/users", ctl.List)
	r.Post("/users", ctl.Create)
	r.Post("/users/import", ctl.ImportCSV)
	r.Put("/users/:email", ctl.Update)
	r.Delete("/users/:email", ctl.Delete)
}
