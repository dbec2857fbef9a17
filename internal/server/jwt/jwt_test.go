package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Secret:     []byte("test-secret-key"),
		SessionTTL: time.Hour,
	}
}

func TestGenerateAndValidate(t *testing.T) {
	cfg := testConfig()

	token, expiresIn, err := GenerateSessionToken(cfg, "w1", "m1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.InDelta(t, 3600, expiresIn, 5)

	claims, err := ValidateSessionToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, "w1", claims.WorkspaceID)
	assert.Equal(t, "m1", claims.MemberID)
}

func TestValidate_WrongSecret(t *testing.T) {
	token, _, err := GenerateSessionToken(testConfig(), "w1", "m1")
	require.NoError(t, err)

	other := Config{Secret: []byte("other-secret"), SessionTTL: time.Hour}
	_, err = ValidateSessionToken(other, token)
	assert.Error(t, err)
}

func TestValidate_Expired(t *testing.T) {
	cfg := Config{Secret: []byte("test-secret-key"), SessionTTL: -time.Minute}

	token, _, err := GenerateSessionToken(cfg, "w1", "m1")
	require.NoError(t, err)

	_, err = ValidateSessionToken(cfg, token)
	assert.Error(t, err)
}

func TestValidate_Garbage(t *testing.T) {
	_, err := ValidateSessionToken(testConfig(), "not.a.token")
	assert.Error(t, err)
}
