package util

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// HashPasswordLegacy generates a PBKDF2+SHA256 hash in "salt$hash"
// form. New accounts use bcrypt; this format is only produced for
// imported data and verified by CheckPasswordLegacy.
func HashPasswordLegacy(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password is empty")
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	hash := pbkdf2.Key([]byte(password), salt, 100_000, 32, sha256.New)
	saltStr := base64.RawStdEncoding.EncodeToString(salt)
	hashStr := base64.RawStdEncoding.EncodeToString(hash)

	return saltStr + "$" + hashStr, nil
}

// CheckPasswordLegacy verifies a password against a "salt$hash"
// PBKDF2 record.
func CheckPasswordLegacy(password, stored string) bool {
	if password == "" || stored == "" {
		return false
	}

	parts := strings.Split(stored, "$")
	if len(parts) != 2 {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}
	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}

	hash := pbkdf2.Key([]byte(password), salt, 100_000, len(expectedHash), sha256.New)

	// constant time compare
	if len(hash) != len(expectedHash) {
		return false
	}
	var diff byte
	for i := range hash {
		diff |= hash[i] ^ expectedHash[i]
	}
	return diff == 0
}

// RandomString generates a URL-safe random string of length n.
func RandomString(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("length must be positive")
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf)[:n], nil
}

// ----------------- AES-256-GCM (stored account numbers) -----------------

// deriveKey always yields a 32-byte key regardless of config length.
func deriveKey(keyStr string) []byte {
	sum := sha256.Sum256([]byte(keyStr))
	return sum[:]
}

// EncryptAES encrypts data with AES-256-GCM and returns nonce+ciphertext.
func EncryptAES(keyStr string, plaintext []byte) ([]byte, error) {
	key := deriveKey(keyStr)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}

	ciphertext := aesgcm.Seal(nil, nonce, plaintext, nil)
	return append(nonce, ciphertext...), nil
}

// DecryptAES decrypts nonce+ciphertext produced by EncryptAES.
func DecryptAES(keyStr string, data []byte) ([]byte, error) {
	key := deriveKey(keyStr)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}

	ns := aesgcm.NonceSize()
	if len(data) < ns {
		return nil, fmt.Errorf("cipher too short")
	}
	nonce, ciphertext := data[:ns], data[ns:]

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	return plaintext, nil
}
