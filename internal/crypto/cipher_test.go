package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, 32)
	plaintext := []byte(`{"apiKey":"secret-value"}`)

	encrypted, err := Encrypt(plaintext, key)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, encrypted)
	assert.GreaterOrEqual(t, len(encrypted), NonceSize+len(plaintext))

	decrypted, err := Decrypt(encrypted, key)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestEncrypt_UniqueNonces(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, 32)
	plaintext := []byte("same input")

	a, err := Encrypt(plaintext, key)
	require.NoError(t, err)
	b, err := Encrypt(plaintext, key)
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "two encryptions of the same input must differ")
}

func TestEncrypt_Validation(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, 32)

	_, err := Encrypt(nil, key)
	assert.Error(t, err)

	_, err = Encrypt([]byte("data"), []byte("short key"))
	assert.Error(t, err)
}

func TestDecrypt_WrongKey(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, 32)
	other := bytes.Repeat([]byte{0x43}, 32)

	encrypted, err := Encrypt([]byte("data"), key)
	require.NoError(t, err)

	_, err = Decrypt(encrypted, other)
	assert.Error(t, err)
}

func TestDecrypt_Tampered(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, 32)

	encrypted, err := Encrypt([]byte("data"), key)
	require.NoError(t, err)

	encrypted[len(encrypted)-1] ^= 0xff
	_, err = Decrypt(encrypted, key)
	assert.Error(t, err)
}

func TestDecrypt_TooShort(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, 32)
	_, err := Decrypt([]byte{1, 2, 3}, key)
	assert.Error(t, err)
}

func TestDeriveStoreKey(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)
	require.Len(t, salt, SaltSize)

	key1, err := DeriveStoreKey("passphrase", salt)
	require.NoError(t, err)
	require.Len(t, key1, Argon2KeyLen)

	// Deterministic for the same inputs.
	key2, err := DeriveStoreKey("passphrase", salt)
	require.NoError(t, err)
	assert.Equal(t, key1, key2)

	// Different passphrase or salt, different key.
	key3, err := DeriveStoreKey("other", salt)
	require.NoError(t, err)
	assert.NotEqual(t, key1, key3)

	otherSalt, err := GenerateSalt()
	require.NoError(t, err)
	key4, err := DeriveStoreKey("passphrase", otherSalt)
	require.NoError(t, err)
	assert.NotEqual(t, key1, key4)
}

func TestDeriveStoreKey_Validation(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)

	_, err = DeriveStoreKey("", salt)
	assert.Error(t, err)

	_, err = DeriveStoreKey("passphrase", nil)
	assert.Error(t, err)
}
