// internals/features/users/auth/controller/auth_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authDTO "absenku_backend/internals/features/users/auth/dto"
	authService "absenku_backend/internals/features/users/auth/service"
	userDTO "absenku_backend/internals/features/users/user/dto"
	userModel "absenku_backend/internals/features/users/user/model"
	helper "absenku_backend/internals/helpers"
)

type AuthController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db, Validator: validator.New()}
}

func (ctl *AuthController) respondTokens(c *fiber.Ctx, user *userModel.UserModel) error {
	access, refresh, err := authService.IssueTokens(user)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal membuat token")
	}
	return helper.Success(c, "Login berhasil", authDTO.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         userDTO.FromModel(user),
	})
}

func mapAuthErr(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, authService.ErrInvalidCredentials),
		errors.Is(err, authService.ErrInvalidRefresh):
		return helper.Error(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, authService.ErrUnknownUser):
		return helper.Error(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, authService.ErrGoogleDisabled):
		return helper.Error(c, fiber.StatusNotImplemented, err.Error())
	default:
		return helper.Error(c, fiber.StatusBadGateway, err.Error())
	}
}

// POST /login
func (ctl *AuthController) Login(c *fiber.Ctx) error {
	var req authDTO.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	user, err := authService.Login(c.UserContext(), ctl.DB, req.Email, req.Password)
	if err != nil {
		return mapAuthErr(c, err)
	}
	return ctl.respondTokens(c, user)
}

// POST /login-google
func (ctl *AuthController) LoginGoogle(c *fiber.Ctx) error {
	var req authDTO.LoginGoogleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	user, err := authService.LoginGoogle(c.UserContext(), ctl.DB, req.IDToken)
	if err != nil {
		return mapAuthErr(c, err)
	}
	return ctl.respondTokens(c, user)
}

// POST /refresh
func (ctl *AuthController) Refresh(c *fiber.Ctx) error {
	var req authDTO.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	user, err := authService.Refresh(c.UserContext(), ctl.DB, req.RefreshToken)
	if err != nil {
		return mapAuthErr(c, err)
	}
	return ctl.respondTokens(c, user)
}
