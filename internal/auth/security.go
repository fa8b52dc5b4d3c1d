package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	limiterpkg "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

var (
	Validate    *validator.Validate
	RateLimiter *limiterpkg.Limiter
)

func InitSecurity() {
	Validate = validator.New()
	Validate.RegisterValidation("password", validatePassword)

	// 30 requests per minute per IP on the public auth routes
	rate := limiterpkg.Rate{
		Period: time.Minute,
		Limit:  30,
	}
	store := memory.NewStore()
	RateLimiter = limiterpkg.New(store, rate)
}

func validatePassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()

	// At least 8 characters
	if len(password) < 8 {
		return false
	}

	// At least one uppercase letter
	if !strings.ContainsAny(password, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		return false
	}

	// At least one lowercase letter
	if !strings.ContainsAny(password, "abcdefghijklmnopqrstuvwxyz") {
		return false
	}

	// At least one number
	if !strings.ContainsAny(password, "0123456789") {
		return false
	}

	// At least one special character
	if !strings.ContainsAny(password, "!@#$%^&*()_+-=[]{}|;:,.<>?") {
		return false
	}

	return true
}

func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}

	if err := Validate.Var(email, "required,email"); err != nil {
		return errors.New("invalid email format")
	}

	if len(email) > 255 {
		return errors.New("email too long")
	}

	return nil
}

func RateLimitMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ip := c.RealIP()
		context, err := RateLimiter.Get(c.Request().Context(), ip)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "rate limit error",
			})
		}

		if context.Reached {
			return c.JSON(http.StatusTooManyRequests, map[string]string{
				"error": "rate limit exceeded",
			})
		}

		return next(c)
	}
}
