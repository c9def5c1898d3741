// Package envcrypt encrypts environment files with AES-256-GCM. The
// key is derived from a master passphrase with PBKDF2 and a random
// per-file salt; the envelope is base64(salt || nonce || ciphertext).
package envcrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 16
	keySize    = 32
	iterations = 100_000
)

var ErrDecryptFailed = errors.New("envcrypt: decryption failed")

func deriveKey(masterKey string, salt []byte) []byte {
	return pbkdf2.Key([]byte(masterKey), salt, iterations, keySize, sha256.New)
}

// Encrypt seals plaintext under the master key. Every call uses a
// fresh salt and nonce, so equal inputs produce different envelopes.
func Encrypt(masterKey string, plaintext []byte) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("envcrypt: salt: %w", err)
	}

	block, err := aes.NewCipher(deriveKey(masterKey, salt))
	if err != nil {
		return "", fmt.Errorf("envcrypt: cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("envcrypt: gcm: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("envcrypt: nonce: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, plaintext, nil)
	envelope := make([]byte, 0, len(salt)+len(nonce)+len(sealed))
	envelope = append(envelope, salt...)
	envelope = append(envelope, nonce...)
	envelope = append(envelope, sealed...)
	return base64.StdEncoding.EncodeToString(envelope), nil
}

// Decrypt opens an envelope produced by Encrypt. A wrong key, a
// truncated envelope, or tampered ciphertext all return
// ErrDecryptFailed.
func Decrypt(masterKey string, envelope string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(envelope)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	if len(raw) < saltSize {
		return nil, ErrDecryptFailed
	}

	salt, rest := raw[:saltSize], raw[saltSize:]
	block, err := aes.NewCipher(deriveKey(masterKey, salt))
	if err != nil {
		return nil, ErrDecryptFailed
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	if len(rest) < gcm.NonceSize() {
		return nil, ErrDecryptFailed
	}

	nonce, ciphertext := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return plaintext, nil
}

// EncryptFile writes <path>.enc next to the input file.
func EncryptFile(masterKey, path string) (string, error) {
	plaintext, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	envelope, err := Encrypt(masterKey, plaintext)
	if err != nil {
		return "", err
	}
	out := path + ".enc"
	if err := os.WriteFile(out, []byte(envelope), 0o600); err != nil {
		return "", err
	}
	return out, nil
}

// DecryptFile writes the recovered plaintext to outPath.
func DecryptFile(masterKey, path, outPath string) error {
	envelope, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	plaintext, err := Decrypt(masterKey, string(envelope))
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, plaintext, 0o600)
}
