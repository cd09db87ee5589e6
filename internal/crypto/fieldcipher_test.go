package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(key)
}

func TestFieldCipherRoundTrip(t *testing.T) {
	cipher, err := NewFieldCipher(testKey(t))
	require.NoError(t, err)
	require.True(t, cipher.Enabled())

	encrypted, err := cipher.EncryptString("Jane Analyst")
	require.NoError(t, err)
	require.NotEqual(t, "Jane Analyst", encrypted)
	require.Contains(t, encrypted, "v1:")

	require.Equal(t, "Jane Analyst", cipher.DecryptString(encrypted))
}

func TestFieldCipherDisabledPassthrough(t *testing.T) {
	cipher, err := NewFieldCipher("")
	require.NoError(t, err)
	require.False(t, cipher.Enabled())

	encrypted, err := cipher.EncryptString("plain")
	require.NoError(t, err)
	require.Equal(t, "plain", encrypted)
	require.Equal(t, "plain", cipher.DecryptString("plain"))
}

func TestFieldCipherRejectsShortKey(t *testing.T) {
	_, err := NewFieldCipher(base64.StdEncoding.EncodeToString([]byte("too-short")))
	require.Error(t, err)
}

func TestFieldCipherDecryptTamperedValue(t *testing.T) {
	cipher, err := NewFieldCipher(testKey(t))
	require.NoError(t, err)

	encrypted, err := cipher.EncryptString("secret")
	require.NoError(t, err)

	tampered := encrypted[:len(encrypted)-2] + "zz"
	// Undecryptable values come back verbatim so legacy plaintext rows
	// still load.
	require.Equal(t, tampered, cipher.DecryptString(tampered))
	require.Equal(t, "legacy plain value", cipher.DecryptString("legacy plain value"))
}
