package auth

import (
	"testing"

	"github.com/myysophia/toolbox-backend/internal/config"
	"github.com/myysophia/toolbox-backend/internal/db/models"
	"github.com/stretchr/testify/assert"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		SecretKey: "test-secret",
		ExpiresIn: 3600,
		Issuer:    "toolbox-backend-test",
	}
}

func testUser() *models.User {
	user := &models.User{
		Username: "admin",
		Role:     models.RoleAdmin,
	}
	user.ID = 1
	return user
}

func TestGenerateAndParseToken(t *testing.T) {
	cfg := testJWTConfig()

	token, err := GenerateToken(testUser(), cfg)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := ParseToken(token, cfg)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "toolbox-backend-test", claims.Issuer)
}

func TestParseToken_WrongSecret(t *testing.T) {
	cfg := testJWTConfig()

	token, err := GenerateToken(testUser(), cfg)
	assert.NoError(t, err)

	other := testJWTConfig()
	other.SecretKey = "another-secret"

	_, err = ParseToken(token, other)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Expired(t *testing.T) {
	cfg := testJWTConfig()
	cfg.ExpiresIn = -60 // 已过期

	token, err := GenerateToken(testUser(), cfg)
	assert.NoError(t, err)

	_, err = ParseToken(token, cfg)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
