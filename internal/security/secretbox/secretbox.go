// Package secretbox cifra secretos en reposo con AES-256-GCM.
//
// El formato de salida es base64(nonce)|base64(ciphertext). La clave maestra
// se inyecta al construir el Box — nunca hay estado global de proceso, lo que
// permite sustituir la clave en tests sin tocar el entorno.
package secretbox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	// EnvVar es la variable de entorno estándar para la clave maestra (base64).
	EnvVar = "SECRETBOX_MASTER_KEY"

	nonceSizeGCM      = 12 // AES-GCM nonce recomendado (96 bits)
	requiredKeyLength = 32 // 32 bytes => AES-256
	sep               = "|"
)

var errFormat = errors.New("secretbox: formato inválido, esperado base64(nonce)|base64(ciphertext)")

// Box envuelve una clave simétrica. Construirlo una vez en el wiring y pasarlo
// como dependencia a quien necesite cifrar/descifrar.
type Box struct {
	aead cipher.AEAD
}

// New crea un Box con una clave cruda de 32 bytes.
func New(key []byte) (*Box, error) {
	if len(key) != requiredKeyLength {
		return nil, fmt.Errorf("secretbox: key must be %d bytes, got %d", requiredKeyLength, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("secretbox: aes.NewCipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("secretbox: cipher.NewGCM: %w", err)
	}
	return &Box{aead: aead}, nil
}

// NewFromBase64 crea un Box desde una clave en base64 (std o raw).
func NewFromBase64(keyB64 string) (*Box, error) {
	keyB64 = strings.TrimSpace(keyB64)
	if keyB64 == "" {
		return nil, fmt.Errorf("secretbox: empty key; genere una con: openssl rand -base64 32")
	}
	k, err := base64.StdEncoding.DecodeString(keyB64)
	if err != nil {
		if k2, err2 := base64.RawStdEncoding.DecodeString(keyB64); err2 == nil {
			return New(k2)
		}
		return nil, fmt.Errorf("secretbox: decode key: %w", err)
	}
	return New(k)
}

// NewFromEnv crea un Box desde SECRETBOX_MASTER_KEY.
func NewFromEnv() (*Box, error) {
	return NewFromBase64(os.Getenv(EnvVar))
}

// Encrypt cifra plainText y devuelve base64(nonce)|base64(ciphertext).
func (b *Box) Encrypt(plainText string) (string, error) {
	nonce := make([]byte, nonceSizeGCM)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("secretbox: nonce random: %w", err)
	}
	ct := b.aead.Seal(nil, nonce, []byte(plainText), nil)
	return base64.StdEncoding.EncodeToString(nonce) + sep + base64.StdEncoding.EncodeToString(ct), nil
}

// Decrypt recibe base64(nonce)|base64(ciphertext) y devuelve el texto plano.
// Un fallo acá es fatal para la operación que necesitaba el secreto: el caller
// nunca debe degradar a tratar el ciphertext como plaintext.
func (b *Box) Decrypt(cipherText string) (string, error) {
	parts := strings.Split(cipherText, sep)
	if len(parts) != 2 {
		return "", errFormat
	}
	nonce, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return "", fmt.Errorf("secretbox: decode nonce: %w", err)
	}
	ct, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("secretbox: decode ciphertext: %w", err)
	}
	if len(nonce) != nonceSizeGCM {
		return "", fmt.Errorf("secretbox: nonce inválido: esperado %d bytes, obtuvo %d", nonceSizeGCM, len(nonce))
	}
	pt, err := b.aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", fmt.Errorf("secretbox: gcm auth/decrypt: %w", err)
	}
	return string(pt), nil
}
