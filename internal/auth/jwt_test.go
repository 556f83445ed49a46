package auth

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"galpao-backend/internal/config"
	"galpao-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "segredo-de-teste-bem-comprido-123456"

func TestGenerateTokenCarriesFullName(t *testing.T) {
	user := &models.User{ID: 7, FullName: "Maria Souza", Email: "maria@exemplo.com", Role: models.RoleGalpao}

	tokenStr, err := GenerateToken(testSecret, user)
	require.NoError(t, err)

	token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)

	claims, ok := token.Claims.(*JWTCustomClaims)
	require.True(t, ok)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "Maria Souza", claims.FullName)
	assert.Equal(t, "maria@exemplo.com", claims.Email)
	assert.Equal(t, models.RoleGalpao, claims.Role)
}

// nameSeenBy devolve o valor que o middleware deixou em CtxUserNameKey.
func nameSeenBy(t *testing.T, cfg *config.Config, tokenStr string) string {
	t.Helper()

	app := fiber.New()
	app.Get("/quem", JWTMiddleware(cfg), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(CtxUserNameKey).(string))
	})

	req := httptest.NewRequest(fiber.MethodGet, "/quem", nil)
	req.Header.Set("Authorization", "Bearer "+tokenStr)

	res, err := app.Test(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return string(body)
}

// O nome guardado no contexto alimenta a coluna user_name da auditoria e deve
// ser o nome completo do usuário, não o email.
func TestJWTMiddlewareStoresFullName(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	user := &models.User{ID: 3, FullName: "João Lima", Email: "joao@exemplo.com", Role: models.RoleGestor}

	tokenStr, err := GenerateToken(cfg.JWTSecret, user)
	require.NoError(t, err)

	assert.Equal(t, "João Lima", nameSeenBy(t, cfg, tokenStr))
}

// Tokens emitidos antes do claim full_name continuam válidos até expirar.
func TestJWTMiddlewareFallsBackToEmail(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}

	claims := &JWTCustomClaims{
		UserID: 4,
		Email:  "legado@exemplo.com",
		Role:   models.RoleExpedicao,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)

	assert.Equal(t, "legado@exemplo.com", nameSeenBy(t, cfg, tokenStr))
}
