// Package cryptox seals and opens passphrase-protected journal backups.
// Keys are derived with argon2id and payloads sealed with AES-256-GCM.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

var ErrWrongPassphrase = errors.New("wrong passphrase or corrupted backup")

const (
	saltSize  = 16
	nonceSize = 12
	keySize   = 32
)

// Envelope is the sealed form of a backup payload. All fields are required
// to open it again.
type Envelope struct {
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// DeriveKey stretches a passphrase into an AES-256 key.
func DeriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, keySize)
}

// Seal encrypts plaintext under a key derived from the passphrase, using a
// fresh random salt and nonce.
func Seal(plaintext, passphrase []byte) (*Envelope, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generating salt: %w", err)
	}
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}

	aead, err := newAEAD(DeriveKey(passphrase, salt))
	if err != nil {
		return nil, err
	}

	return &Envelope{
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: aead.Seal(nil, nonce, plaintext, nil),
	}, nil
}

// Open decrypts a sealed envelope. A failed authentication tag reports
// ErrWrongPassphrase; the caller cannot distinguish a bad passphrase from
// a tampered file, and should not try.
func Open(env *Envelope, passphrase []byte) ([]byte, error) {
	if len(env.Salt) != saltSize || len(env.Nonce) != nonceSize {
		return nil, ErrWrongPassphrase
	}

	aead, err := newAEAD(DeriveKey(passphrase, env.Salt))
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, env.Nonce, env.Ciphertext, nil)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return plaintext, nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
