package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestJWTMiddlewareClaims(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	e := echo.New()
	handler := JWTMiddleware(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	do := func(token string) (*httptest.ResponseRecorder, echo.Context) {
		req := httptest.NewRequest(http.MethodGet, "/clients", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		require.NoError(t, handler(c))
		return rec, c
	}

	exp := time.Now().Add(time.Hour).Unix()

	t.Run("valid token", func(t *testing.T) {
		rec, c := do(signToken(t, "test-secret", jwt.MapClaims{
			"user_id": 7, "org_id": "org-1", "exp": exp,
		}))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(7), c.Get("user_id"))
		assert.Equal(t, "org-1", c.Get("org_id"))
	})

	// Validly signed tokens with broken claims get a 401, never a panic.
	t.Run("missing user_id", func(t *testing.T) {
		rec, _ := do(signToken(t, "test-secret", jwt.MapClaims{
			"org_id": "org-1", "exp": exp,
		}))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("string user_id", func(t *testing.T) {
		rec, _ := do(signToken(t, "test-secret", jwt.MapClaims{
			"user_id": "7", "org_id": "org-1", "exp": exp,
		}))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing org_id", func(t *testing.T) {
		rec, _ := do(signToken(t, "test-secret", jwt.MapClaims{
			"user_id": 7, "exp": exp,
		}))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		rec, _ := do(signToken(t, "other-secret", jwt.MapClaims{
			"user_id": 7, "org_id": "org-1", "exp": exp,
		}))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
