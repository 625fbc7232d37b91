// file: internals/route/index.go
package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"absenku_backend/internals/configs"
	"absenku_backend/internals/constants"
	batchRoute "absenku_backend/internals/features/attendance/batch/route"
	dirRoute "absenku_backend/internals/features/attendance/directory/route"
	dirService "absenku_backend/internals/features/attendance/directory/service"
	recordRoute "absenku_backend/internals/features/attendance/record/route"
	authRoute "absenku_backend/internals/features/users/auth/route"
	userRoute "absenku_backend/internals/features/users/user/route"
	"absenku_backend/internals/helpers/kvstore"
	authmw "absenku_backend/internals/middlewares/auth"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, directory *dirService.Service, kv kvstore.KeyValueStore) {
	// ===================== PUBLIC =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	authRoute.AuthRoutes(app.Group("/api/auth"), db)

	jwt := authmw.AuthJWT(authmw.AuthJWTOpts{
		Secret:              configs.JWTSecret,
		AllowCookieFallback: true,
	})

	// ===================== PRIVATE (USER) =====================
	log.Println("[INFO] Setting up USER group...")
	user := app.Group("/api/u", jwt)
	userRoute.UserSelfRoutes(user, db)
	recordRoute.UserRecordRoutes(user, db, directory)

	// ===================== OPERATOR (clocker+) =====================
	log.Println("[INFO] Setting up OPERATOR group...")
	operator := app.Group("/api/o", jwt,
		authmw.RequireRoles(constants.RoleErrorClocker("absensi"), constants.ClockerAndAbove...),
	)
	userRoute.OperatorUserRoutes(operator, db)
	recordRoute.OperatorRecordRoutes(operator, db, directory)
	batchRoute.OperatorBatchRoutes(operator, db, kv, directory)
	dirRoute.OperatorDirectoryRoutes(operator, directory)

	// ===================== ADMIN (admin+) =====================
	log.Println("[INFO] Setting up ADMIN group...")
	admin := app.Group("/api/a", jwt,
		authmw.RequireRoles(constants.RoleErrorAdmin("administrasi"), constants.AdminAndAbove...),
	)
	userRoute.AdminUserRoutes(admin, db)
	recordRoute.AdminRecordRoutes(admin, db, directory)
}
