package store

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/pbkdf2"
)

const keySalt = "salt"

// sealKey derives the AES-256 key used to seal stored credentials. The key
// comes from a per-install random salt (kept in the meta table) stretched
// with PBKDF2 over the host identity, so a copied database file is not
// readable on another machine or account.
func (s *Store) sealKey() ([]byte, error) {
	var salt []byte
	err := s.conn.QueryRow("SELECT value FROM meta WHERE name = ?", keySalt).Scan(&salt)
	if err == sql.ErrNoRows {
		salt = make([]byte, 16)
		if _, err := rand.Read(salt); err != nil {
			return nil, fmt.Errorf("generate salt: %w", err)
		}
		if _, err := s.conn.Exec("INSERT INTO meta (name, value) VALUES (?, ?)", keySalt, salt); err != nil {
			return nil, fmt.Errorf("persist salt: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("read salt: %w", err)
	}

	return pbkdf2.Key(hostIdentity(), salt, 100_000, 32, sha256.New), nil
}

func hostIdentity() []byte {
	host, err := os.Hostname()
	if err != nil {
		host = "localhost"
	}
	return []byte(fmt.Sprintf("%s/%d", host, os.Getuid()))
}

// seal encrypts plain with AES-256-GCM and returns nonce+ciphertext.
func (s *Store) seal(plain []byte) ([]byte, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

// open decrypts a value produced by seal.
func (s *Store) open(sealed []byte) ([]byte, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(sealed) < gcm.NonceSize() {
		return nil, errors.New("sealed value too short")
	}
	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
