package token

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/pbkdf2"

	envcrypto "github.com/opd-ai/envelope/crypto"
)

const (
	// PBKDF2Iterations is the number of iterations for key derivation.
	PBKDF2Iterations = 100000
	// EncryptionVersion is the current at-rest encryption format version.
	EncryptionVersion = 1
	// SaltSize is the size of the salt for PBKDF2.
	SaltSize = 32
)

// ErrKeyNotFound indicates the named key has never been stored.
var ErrKeyNotFound = errors.New("key not found in store")

// EncryptedKeyStore persists named keys with AES-256-GCM encryption at
// rest. The store key is derived from a master password via PBKDF2 with a
// per-store salt, so the files are useless without the password even if
// the filesystem is compromised.
type EncryptedKeyStore struct {
	encryptionKey [32]byte
	dataDir       string
	saltFile      string
}

// NewEncryptedKeyStore opens (or initializes) a key store under dataDir.
// masterPassword should be a user-provided passphrase or a value from the
// system keyring; it is wiped before this function returns.
func NewEncryptedKeyStore(dataDir string, masterPassword []byte) (*EncryptedKeyStore, error) {
	if len(masterPassword) == 0 {
		return nil, fmt.Errorf("master password cannot be empty")
	}

	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	ks := &EncryptedKeyStore{
		dataDir:  dataDir,
		saltFile: filepath.Join(dataDir, ".salt"),
	}

	salt, err := ks.loadOrGenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize salt: %w", err)
	}

	derivedKey := pbkdf2.Key(masterPassword, salt, PBKDF2Iterations, 32, sha256.New)
	copy(ks.encryptionKey[:], derivedKey)

	envcrypto.ZeroBytes(derivedKey)
	envcrypto.ZeroBytes(masterPassword)

	return ks, nil
}

// Close wipes the in-memory encryption key. The store must not be used
// afterwards.
func (ks *EncryptedKeyStore) Close() {
	envcrypto.ZeroBytes(ks.encryptionKey[:])
}

func (ks *EncryptedKeyStore) loadOrGenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)

	data, err := os.ReadFile(ks.saltFile)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read salt file: %w", err)
		}

		if _, err := rand.Read(salt); err != nil {
			return nil, fmt.Errorf("failed to generate salt: %w", err)
		}

		if err := os.WriteFile(ks.saltFile, salt, 0o600); err != nil {
			return nil, fmt.Errorf("failed to save salt: %w", err)
		}

		return salt, nil
	}

	if len(data) != SaltSize {
		return nil, fmt.Errorf("invalid salt file size: got %d, want %d", len(data), SaltSize)
	}

	copy(salt, data)
	return salt, nil
}

// StoreKey encrypts and persists a named key.
// File format: [version:2][nonce:12][ciphertext+tag:N].
func (ks *EncryptedKeyStore) StoreKey(name string, key []byte) error {
	block, err := aes.NewCipher(ks.encryptionKey[:])
	if err != nil {
		return fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return fmt.Errorf("failed to create GCM: %w", err)
	}

	// A unique nonce per write is critical for GCM.
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, key, nil)

	output := make([]byte, 2+len(nonce)+len(ciphertext))
	binary.BigEndian.PutUint16(output[0:2], EncryptionVersion)
	copy(output[2:2+len(nonce)], nonce)
	copy(output[2+len(nonce):], ciphertext)

	// Atomic write using temporary file + rename.
	tmpFile := filepath.Join(ks.dataDir, name+".key.tmp")
	finalFile := filepath.Join(ks.dataDir, name+".key")

	if err := os.WriteFile(tmpFile, output, 0o600); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := os.Rename(tmpFile, finalFile); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}

// LoadKey reads and decrypts a named key. Returns ErrKeyNotFound if the
// key was never stored, and an error if the file is corrupted or the
// master password is wrong.
func (ks *EncryptedKeyStore) LoadKey(name string) ([]byte, error) {
	filePath := filepath.Join(ks.dataDir, name+".key")
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, name)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// version + nonce + tag
	if len(data) < 2+12+16 {
		return nil, fmt.Errorf("key file too short: %d bytes", len(data))
	}

	version := binary.BigEndian.Uint16(data[0:2])
	if version != EncryptionVersion {
		return nil, fmt.Errorf("unsupported encryption version: %d (expected %d)", version, EncryptionVersion)
	}

	block, err := aes.NewCipher(ks.encryptionKey[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(data) < 2+nonceSize {
		return nil, fmt.Errorf("key file too short for nonce: %d bytes", len(data))
	}

	nonce := data[2 : 2+nonceSize]
	ciphertext := data[2+nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed (wrong password or corrupted data): %w", err)
	}

	return plaintext, nil
}
