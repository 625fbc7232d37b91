// internals/features/users/auth/route/auth_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authController "absenku_backend/internals/features/users/auth/controller"
	"absenku_backend/internals/middlewares"
)

// AuthRoutes: endpoint publik (tanpa JWT), limiter login lebih ketat
func AuthRoutes(r fiber.Router, db *gorm.DB) {
	ctl := authController.NewAuthController(db)

	r.Post("/login", middlewares.LoginRateLimiter(), ctl.Login)
	r.Post("/login-google", middlewares.LoginRateLimiter(), ctl.LoginGoogle)
	r.Post("/refresh", ctl.Refresh)
}
