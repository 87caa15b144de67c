package security

import (
	"crypto/rand"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKey(t *testing.T) []byte {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestEncryptor_EncryptDecrypt(t *testing.T) {
	encryptor, err := NewEncryptor(newKey(t))
	require.NoError(t, err)

	testCases := []struct {
		name      string
		plaintext string
	}{
		{name: "simple note", plaintext: "Skin felt tight after the new cleanser"},
		{name: "empty string", plaintext: ""},
		{name: "unicode text", plaintext: "Bőröm ma száraz és piros"},
		{name: "long text", plaintext: strings.Repeat("Retinol night, slight peeling around the nose. ", 40)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ciphertext, err := encryptor.Encrypt(tc.plaintext)
			require.NoError(t, err)

			if tc.plaintext == "" {
				assert.Equal(t, "", ciphertext)
				return
			}

			assert.NotEqual(t, tc.plaintext, ciphertext)
			assert.True(t, strings.HasPrefix(ciphertext, sealedPrefix))

			decrypted, err := encryptor.Decrypt(ciphertext)
			require.NoError(t, err)
			assert.Equal(t, tc.plaintext, decrypted)
		})
	}
}

func TestEncryptor_NonceMakesCiphertextUnique(t *testing.T) {
	encryptor, err := NewEncryptor(newKey(t))
	require.NoError(t, err)

	first, err := encryptor.Encrypt("same note")
	require.NoError(t, err)
	second, err := encryptor.Encrypt("same note")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestNewEncryptor_InvalidKeySize(t *testing.T) {
	for _, size := range []int{0, 16, 24, 31, 33, 64} {
		_, err := NewEncryptor(make([]byte, size))
		assert.Error(t, err, "key size %d", size)
	}
}

func TestNewOptionalEncryptor(t *testing.T) {
	encryptor, err := NewOptionalEncryptor(nil)
	require.NoError(t, err)
	assert.Nil(t, encryptor)

	_, err = NewOptionalEncryptor([]byte("short"))
	assert.Error(t, err)
}

func TestEncryptor_NilPassesThrough(t *testing.T) {
	var encryptor *Encryptor

	sealed, err := encryptor.Encrypt("plain note")
	require.NoError(t, err)
	assert.Equal(t, "plain note", sealed)

	opened, err := encryptor.Decrypt("plain note")
	require.NoError(t, err)
	assert.Equal(t, "plain note", opened)

	_, err = encryptor.Decrypt(sealedPrefix + "AAAA")
	assert.Error(t, err, "sealed values need a key")
}

func TestEncryptor_LegacyPlaintextIsReturnedAsIs(t *testing.T) {
	encryptor, err := NewEncryptor(newKey(t))
	require.NoError(t, err)

	opened, err := encryptor.Decrypt("written before encryption was enabled")
	require.NoError(t, err)
	assert.Equal(t, "written before encryption was enabled", opened)
}

func TestEncryptor_WrongKeyFails(t *testing.T) {
	a, err := NewEncryptor(newKey(t))
	require.NoError(t, err)
	b, err := NewEncryptor(newKey(t))
	require.NoError(t, err)

	sealed, err := a.Encrypt("private")
	require.NoError(t, err)

	_, err = b.Decrypt(sealed)
	assert.Error(t, err)
}

func TestEncryptor_TamperedCiphertextFails(t *testing.T) {
	encryptor, err := NewEncryptor(newKey(t))
	require.NoError(t, err)

	_, err = encryptor.Decrypt(sealedPrefix + "not base64!!")
	assert.Error(t, err)

	_, err = encryptor.Decrypt(sealedPrefix + "AAAA")
	assert.Error(t, err, "shorter than the nonce")
}

func TestProperty_EncryptRoundTrip(t *testing.T) {
	key := newKey(t)
	encryptor, err := NewEncryptor(key)
	require.NoError(t, err)

	properties := gopter.NewProperties(nil)

	properties.Property("decrypt(encrypt(x)) == x", prop.ForAll(
		func(note string) bool {
			sealed, err := encryptor.Encrypt(note)
			if err != nil {
				return false
			}
			opened, err := encryptor.Decrypt(sealed)
			return err == nil && opened == note
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

func TestEncryptor_NilRoundTripsMarkerLikeText(t *testing.T) {
	var encryptor *Encryptor

	for _, note := range []string{
		sealedPrefix + " my own note",
		plainPrefix + "looks escaped already",
		"enc:v1",
	} {
		stored, err := encryptor.Encrypt(note)
		require.NoError(t, err)

		opened, err := encryptor.Decrypt(stored)
		require.NoError(t, err, "note %q", note)
		assert.Equal(t, note, opened)
	}
}

func TestEncryptor_KeyedDecryptReadsEscapedPlaintext(t *testing.T) {
	var unkeyed *Encryptor
	stored, err := unkeyed.Encrypt(sealedPrefix + "written without a key")
	require.NoError(t, err)

	keyed, err := NewEncryptor(newKey(t))
	require.NoError(t, err)
	opened, err := keyed.Decrypt(stored)
	require.NoError(t, err)
	assert.Equal(t, sealedPrefix+"written without a key", opened)
}

func TestProperty_NilEncryptorRoundTrip(t *testing.T) {
	var encryptor *Encryptor
	properties := gopter.NewProperties(nil)

	properties.Property("unkeyed decrypt(encrypt(x)) == x", prop.ForAll(
		func(body string, prefixed bool) bool {
			note := body
			if prefixed {
				note = sealedPrefix + body
			}
			stored, err := encryptor.Encrypt(note)
			if err != nil {
				return false
			}
			opened, err := encryptor.Decrypt(stored)
			return err == nil && opened == note
		},
		gen.AnyString(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
