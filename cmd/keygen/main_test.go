package main

import (
	"bytes"
	"strings"
	"testing"

	"crypto_bot/internal/secrets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookup(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

// envValue достаёт значение NAME=... из вывода.
func envValue(out, name string) string {
	for _, line := range strings.Split(out, "\n") {
		if v, ok := strings.CutPrefix(line, name+"="); ok {
			return v
		}
	}
	return ""
}

func TestRun_Generate(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(nil, lookup(nil), &out))

	key := envValue(strings.ReplaceAll(out.String(), "Add to .env.local: ", ""), "ENCRYPTION_KEY")
	assert.Len(t, key, secrets.KeyLength)
	assert.Contains(t, out.String(), "Your encryption key: "+key)
}

func TestRun_Encrypt(t *testing.T) {
	key, err := secrets.GenerateKey()
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, run([]string{"encrypt"}, lookup(map[string]string{
		"ENCRYPTION_KEY":     key,
		"BINANCE_API_KEY":    "api-key",
		"BINANCE_SECRET_KEY": "api-secret",
	}), &out))

	// то, что напечатали, расшифровывается обратно тем же ключом
	apiKey, err := secrets.Decrypt(envValue(out.String(), "ENCRYPTED_BINANCE_API_KEY"), key)
	require.NoError(t, err)
	assert.Equal(t, "api-key", apiKey)
	secret, err := secrets.Decrypt(envValue(out.String(), "ENCRYPTED_BINANCE_SECRET_KEY"), key)
	require.NoError(t, err)
	assert.Equal(t, "api-secret", secret)
}

func TestRun_EncryptErrors(t *testing.T) {
	var out bytes.Buffer

	err := run([]string{"encrypt"}, lookup(map[string]string{"ENCRYPTION_KEY": "x"}), &out)
	assert.ErrorContains(t, err, "BINANCE_API_KEY")

	err = run([]string{"encrypt"}, lookup(map[string]string{
		"ENCRYPTION_KEY": "short", "BINANCE_API_KEY": "a", "BINANCE_SECRET_KEY": "b",
	}), &out)
	assert.ErrorIs(t, err, secrets.ErrInvalidKey)

	assert.Error(t, run([]string{"decrypt"}, lookup(nil), &out))
	assert.Empty(t, out.String())
}
