package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerify(t *testing.T) {
	secret := "test-secret-0123456789"
	raw, err := GenerateAdminToken(secret, "admin@example.com", time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := VerifyAdminToken(secret, raw)
	require.NoError(t, err)
	require.Equal(t, "admin@example.com", claims["sub"])
	require.Equal(t, "jokes:admin", claims["scope"])
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	raw, err := GenerateAdminToken("secret-a", "admin", time.Minute)
	require.NoError(t, err)
	_, err = VerifyAdminToken("secret-b", raw)
	require.Error(t, err)
}

func TestVerifyRejectsExpired(t *testing.T) {
	raw, err := GenerateAdminToken("secret", "admin", -time.Minute)
	require.NoError(t, err)
	_, err = VerifyAdminToken("secret", raw)
	require.Error(t, err)
}
