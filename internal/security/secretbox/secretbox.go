// Package secretbox cifra valores sensibles en reposo (connection strings de
// tenants) con NaCl secretbox (XSalsa20-Poly1305).
package secretbox

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	keyLen   = 32
	nonceLen = 24
	// prefix marca los valores cifrados; sin prefijo el valor se trata como texto plano.
	prefix = "sb1:"
)

var (
	ErrInvalidKey    = errors.New("secretbox: la clave debe decodificar a 32 bytes (base64 o hex)")
	ErrMalformed     = errors.New("secretbox: ciphertext mal formado")
	ErrDecryptFailed = errors.New("secretbox: no se pudo descifrar (clave incorrecta o dato alterado)")
)

// Box cifra/descifra con una clave fija. Un *Box nil es passthrough:
// Encrypt devuelve el texto tal cual y Decrypt solo acepta texto plano.
type Box struct {
	key [keyLen]byte
}

// New crea un Box a partir de una clave en base64 (std o raw) o hex.
// Una clave vacía retorna (nil, nil).
func New(key string) (*Box, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, nil
	}
	raw, err := decodeKey(key)
	if err != nil {
		return nil, err
	}
	b := &Box{}
	copy(b.key[:], raw)
	return b, nil
}

func decodeKey(key string) ([]byte, error) {
	if b, err := base64.StdEncoding.DecodeString(key); err == nil && len(b) == keyLen {
		return b, nil
	}
	if b, err := base64.RawStdEncoding.DecodeString(key); err == nil && len(b) == keyLen {
		return b, nil
	}
	if len(key) == 2*keyLen {
		if b, err := hex.DecodeString(key); err == nil {
			return b, nil
		}
	}
	return nil, ErrInvalidKey
}

// Enabled indica si hay clave cargada.
func (b *Box) Enabled() bool { return b != nil }

// Encrypt devuelve "sb1:" + base64(nonce || sealed).
func (b *Box) Encrypt(plain string) (string, error) {
	if b == nil {
		return plain, nil
	}
	var nonce [nonceLen]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("secretbox: nonce: %w", err)
	}
	out := secretbox.Seal(nonce[:], []byte(plain), &nonce, &b.key)
	return prefix + base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt revierte Encrypt. Valores sin prefijo se devuelven tal cual.
func (b *Box) Decrypt(value string) (string, error) {
	if !IsEncrypted(value) {
		return value, nil
	}
	if b == nil {
		return "", fmt.Errorf("secretbox: valor cifrado sin clave configurada: %w", ErrInvalidKey)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, prefix))
	if err != nil || len(raw) < nonceLen+secretbox.Overhead {
		return "", ErrMalformed
	}
	var nonce [nonceLen]byte
	copy(nonce[:], raw[:nonceLen])
	plain, ok := secretbox.Open(nil, raw[nonceLen:], &nonce, &b.key)
	if !ok {
		return "", ErrDecryptFailed
	}
	return string(plain), nil
}

// IsEncrypted reporta si value tiene el formato producido por Encrypt.
func IsEncrypted(value string) bool { return strings.HasPrefix(value, prefix) }
