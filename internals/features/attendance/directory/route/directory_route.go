// internals/features/attendance/directory/route/directory_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	dirController "absenku_backend/internals/features/attendance/directory/controller"
	dirService "absenku_backend/internals/features/attendance/directory/service"
)

// OperatorDirectoryRoutes: group /api/o — potret direktori + refresh manual
func OperatorDirectoryRoutes(r fiber.Router, directory *dirService.Service) {
	ctl := dirController.NewDirectoryController(directory)

	r.Get("/directory", ctl.Get)
	r.Post("/directory/refresh", ctl.Refresh)
}
