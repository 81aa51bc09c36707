// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"afrikticket_backend/internals/configs"
	helper "afrikticket_backend/internals/helpers"
	helperAuth "afrikticket_backend/internals/helpers/auth"
)

// AuthMiddleware requires a valid, non-blacklisted access token belonging to
// an active account, then stores user_id / userRole / raw token in Locals.
func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		if err := authenticate(c, db, tokenString); err != nil {
			return err
		}
		return c.Next()
	}
}

// OptionalAuth attaches the caller when a usable token is present and
// otherwise continues as anonymous. Used on public listings that show more
// to owners and admins.
func OptionalAuth(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return c.Next()
		}
		if err := authenticate(c, db, tokenString); err != nil {
			log.Printf("[INFO] OptionalAuth: continuing as anonymous: %v", err)
			c.Locals(helperAuth.LocUserID, nil)
			c.Locals(helperAuth.LocRole, nil)
		}
		return c.Next()
	}
}

func authenticate(c *fiber.Ctx, db *gorm.DB, tokenString string) error {
	secret := configs.JWTSecret
	if secret == "" {
		log.Println("[ERROR] JWT_SECRET is empty")
		return fiber.NewError(fiber.StatusInternalServerError, "Missing JWT Secret")
	}

	if c.Locals("token_checked") == nil {
		blacklisted, err := helperAuth.IsBlacklisted(c.Context(), db, tokenString, secret)
		if err != nil {
			log.Println("[ERROR] blacklist lookup:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
		}
		if blacklisted {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token is blacklisted")
		}
		c.Locals("token_checked", true)
	}

	claims, err := helperAuth.ParseSession(tokenString, helperAuth.TokenTypeAccess, secret)
	if err != nil {
		return err
	}
	userID, _ := claims.UserID()

	role, err := ensureUserActive(db, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - User not found")
		}
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return fe
		}
		log.Println("[ERROR] ensureUserActive:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}

	// the role in the database wins over the one baked into the token
	c.Locals(helperAuth.LocUserID, userID.String())
	c.Locals(helperAuth.LocRole, role)
	if claims.Name != "" {
		c.Locals("user_name", claims.Name)
	}
	helper.SetRawAccessToken(c, tokenString)
	return nil
}
