package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestEncryptDecrypt(t *testing.T) {
	t.Parallel()

	key, err := DeriveKey(testKey)
	require.NoError(t, err)

	a, err := Encrypt("ghp_secret", key)
	require.NoError(t, err)
	b, err := Encrypt("ghp_secret", key)
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "nonce must differ per call")

	plain, err := Decrypt(a, key)
	require.NoError(t, err)
	assert.Equal(t, "ghp_secret", plain)
}

func TestDecrypt_WrongKey(t *testing.T) {
	t.Parallel()

	key, err := DeriveKey(testKey)
	require.NoError(t, err)
	other, err := DeriveKey(strings.Repeat("ff", 32))
	require.NoError(t, err)

	enc, err := Encrypt("ghp_secret", key)
	require.NoError(t, err)

	_, err = Decrypt(enc, other)
	assert.Error(t, err)

	_, err = Decrypt("bm9wZQ==", key)
	assert.Error(t, err)
}

func TestDeriveKey_Invalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "zz", strings.Repeat("ab", 16)} {
		_, err := DeriveKey(in)
		assert.Error(t, err, in)
	}
}
