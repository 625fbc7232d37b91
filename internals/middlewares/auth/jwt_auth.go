package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Kunci Locals yang dihydrate middleware ini
const (
	LocUserID    = "user_id"
	LocUserEmail = "user_email"
	LocUserRole  = "user_role"
	LocJWTClaims = "jwt_claims"
)

type AuthJWTOpts struct {
	Secret              string
	AllowCookieFallback bool // pakai cookie access_token jika tidak ada Bearer
}

func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: Secret wajib diisi")
	}

	return func(c *fiber.Ctx) error {
		// 1) Ambil token: Authorization: Bearer xxx (atau cookie jika diizinkan)
		raw := ""
		if authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			raw = strings.TrimSpace(authz[7:])
		} else if o.AllowCookieFallback {
			raw = strings.TrimSpace(c.Cookies("access_token"))
		}
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		// 2) Parse + verifikasi algoritma
		tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
		}
		c.Locals(LocJWTClaims, claims)

		// === HYDRATE LOCALS ===
		if sub, ok := claims["sub"].(string); ok {
			if id, err := uuid.Parse(sub); err == nil {
				c.Locals(LocUserID, id)
			}
		}
		if email, ok := claims["email"].(string); ok {
			c.Locals(LocUserEmail, strings.ToLower(email))
		}
		if role, ok := claims["role"].(string); ok {
			c.Locals(LocUserRole, role)
		}

		return c.Next()
	}
}

// GetUserID: ambil uuid operator dari Locals (uuid.Nil jika tidak ada)
func GetUserID(c *fiber.Ctx) uuid.UUID {
	if id, ok := c.Locals(LocUserID).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

func GetUserEmail(c *fiber.Ctx) string {
	if email, ok := c.Locals(LocUserEmail).(string); ok {
		return email
	}
	return ""
}

func GetUserRole(c *fiber.Ctx) string {
	if role, ok := c.Locals(LocUserRole).(string); ok {
		return role
	}
	return ""
}
