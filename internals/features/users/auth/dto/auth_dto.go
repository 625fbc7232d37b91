// internals/features/users/auth/dto/auth_dto.go
package dto

import "absenku_backend/internals/features/users/user/dto"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginGoogleRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type TokenPair struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	User         dto.UserResponse `json:"user"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}
