package secrets

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

const (
	KeyLength = 32
	alphabet  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var ErrInvalidKey = errors.New("encryption key must be 32 characters")

// GenerateKey — случайный ключ из букв и цифр для ENCRYPTION_KEY.
func GenerateKey() (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	var sb strings.Builder
	sb.Grow(KeyLength)
	for i := 0; i < KeyLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", errors.Wrap(err, "read random")
		}
		sb.WriteByte(alphabet[n.Int64()])
	}
	return sb.String(), nil
}

func newBlock(key string) (cipher.Block, error) {
	if len(key) != KeyLength {
		return nil, ErrInvalidKey
	}
	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return nil, errors.Wrap(err, "aes cipher")
	}
	return block, nil
}

// Encrypt шифрует AES-256-CBC и возвращает "hex(iv):hex(ciphertext)".
func Encrypt(plain, key string) (string, error) {
	block, err := newBlock(key)
	if err != nil {
		return "", err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", errors.Wrap(err, "read iv")
	}

	data := pad([]byte(plain), aes.BlockSize)
	out := make([]byte, len(data))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, data)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(out), nil
}

// Decrypt — обратная к Encrypt.
func Decrypt(payload, key string) (string, error) {
	block, err := newBlock(key)
	if err != nil {
		return "", err
	}

	ivHex, dataHex, ok := strings.Cut(payload, ":")
	if !ok {
		return "", errors.New("payload must be iv:ciphertext")
	}
	iv, err := hex.DecodeString(ivHex)
	if err != nil {
		return "", errors.Wrap(err, "decode iv")
	}
	if len(iv) != aes.BlockSize {
		return "", errors.Errorf("iv must be %d bytes, got %d", aes.BlockSize, len(iv))
	}
	data, err := hex.DecodeString(dataHex)
	if err != nil {
		return "", errors.Wrap(err, "decode ciphertext")
	}
	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return "", errors.New("ciphertext is not a multiple of the block size")
	}

	out := make([]byte, len(data))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, data)

	plain, err := unpad(out, aes.BlockSize)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// PKCS#7
func pad(b []byte, size int) []byte {
	n := size - len(b)%size
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(b []byte, size int) ([]byte, error) {
	if len(b) == 0 {
		return nil, errors.New("empty plaintext")
	}
	n := int(b[len(b)-1])
	if n == 0 || n > size || n > len(b) {
		return nil, errors.New("bad padding (wrong key?)")
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, errors.New("bad padding (wrong key?)")
		}
	}
	return b[:len(b)-n], nil
}
