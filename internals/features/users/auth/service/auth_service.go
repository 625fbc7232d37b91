// internals/features/users/auth/service/auth_service.go
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"absenku_backend/internals/configs"
	userModel "absenku_backend/internals/features/users/user/model"
)

var (
	ErrInvalidCredentials = errors.New("email atau password salah")
	ErrGoogleDisabled     = errors.New("login Google tidak diaktifkan")
	ErrUnknownUser        = errors.New("akun tidak terdaftar; hubungi admin")
	ErrInvalidRefresh     = errors.New("refresh token tidak berlaku")
)

const (
	accessTTL  = 15 * time.Minute
	refreshTTL = 7 * 24 * time.Hour
)

// IssueTokens: access + refresh HS256, claims sub/email/role.
func IssueTokens(user *userModel.UserModel) (access, refresh string, err error) {
	now := time.Now()

	accessClaims := jwt.MapClaims{
		"sub":   user.UserID.String(),
		"email": user.UserEmail,
		"role":  user.UserRole,
		"iat":   now.Unix(),
		"exp":   now.Add(accessTTL).Unix(),
	}
	access, err = jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).
		SignedString([]byte(configs.JWTSecret))
	if err != nil {
		return "", "", err
	}

	refreshClaims := jwt.MapClaims{
		"sub": user.UserID.String(),
		"typ": "refresh",
		"iat": now.Unix(),
		"exp": now.Add(refreshTTL).Unix(),
	}
	refresh, err = jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).
		SignedString([]byte(configs.JWTRefreshSecret))
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Login: email + password (bcrypt)
func Login(ctx context.Context, db *gorm.DB, email, password string) (*userModel.UserModel, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user userModel.UserModel
	err := db.WithContext(ctx).Where("user_email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if user.UserPasswordHash == nil {
		return nil, ErrInvalidCredentials // akun Google-only
	}
	if bcrypt.CompareHashAndPassword([]byte(*user.UserPasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// LoginGoogle: verifikasi ID token, cocokkan ke user terdaftar by email.
// Pendaftaran tetap lewat admin/import; token valid untuk email tak dikenal
// ditolak.
func LoginGoogle(ctx context.Context, db *gorm.DB, idToken string) (*userModel.UserModel, error) {
	if configs.GoogleClientID == "" {
		return nil, ErrGoogleDisabled
	}

	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(idToken, []string{configs.GoogleClientID}); err != nil {
		return nil, ErrInvalidCredentials
	}
	claims, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	email := strings.ToLower(strings.TrimSpace(claims.Email))
	var user userModel.UserModel
	err = db.WithContext(ctx).Where("user_email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnknownUser
	}
	if err != nil {
		return nil, err
	}

	// simpan google uid pertama kali login (audit)
	if user.UserGoogleUID == nil && claims.Sub != "" {
		sub := claims.Sub
		_ = db.WithContext(ctx).Model(&user).
			Update("user_google_uid", &sub).Error
		user.UserGoogleUID = &sub
	}
	return &user, nil
}

// Refresh: tukar refresh token dengan access baru.
func Refresh(ctx context.Context, db *gorm.DB, refreshToken string) (*userModel.UserModel, error) {
	tok, err := jwt.Parse(refreshToken, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidRefresh
		}
		return []byte(configs.JWTRefreshSecret), nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidRefresh
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || claims["typ"] != "refresh" {
		return nil, ErrInvalidRefresh
	}
	sub, _ := claims["sub"].(string)

	var user userModel.UserModel
	err = db.WithContext(ctx).Where("user_id = ?", sub).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidRefresh
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
