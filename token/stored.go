package token

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Key names within the store.
const (
	signingKeyName     = "signing"
	obfuscationKeyName = "obfuscation"
)

// generatedKeyBytes is the entropy of a freshly generated key; keys are
// stored and served as hex strings.
const generatedKeyBytes = 32

// Stored is a Provider backed by an EncryptedKeyStore. On first use it
// generates a random key pair and persists it; later instances pointed at
// the same store serve the same pair.
type Stored struct {
	store *EncryptedKeyStore
}

// NewStored opens a provider over the key store at dataDir. If the store
// cannot be opened, the hard-coded fallback pair is served instead so that
// callers always get a usable provider.
func NewStored(dataDir string, masterPassword []byte) Provider {
	store, err := NewEncryptedKeyStore(dataDir, masterPassword)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "NewStored",
			"data_dir": dataDir,
			"error":    err.Error(),
		}).Warn("Key store unavailable, serving fallback key pair")
		return DefaultStatic()
	}
	return &Stored{store: store}
}

// SigningKey loads (or generates and persists) the signing key.
func (s *Stored) SigningKey() (string, error) {
	return s.loadOrCreate(signingKeyName)
}

// ObfuscationKey loads (or generates and persists) the obfuscation key.
func (s *Stored) ObfuscationKey() (string, error) {
	return s.loadOrCreate(obfuscationKeyName)
}

func (s *Stored) loadOrCreate(name string) (string, error) {
	key, err := s.store.LoadKey(name)
	if err == nil {
		return string(key), nil
	}
	if !errors.Is(err, ErrKeyNotFound) {
		// Wrong password or corruption; never overwrite an existing key.
		return "", fmt.Errorf("failed to load %s key: %w", name, err)
	}

	buf := make([]byte, generatedKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate %s key: %w", name, err)
	}
	generated := hex.EncodeToString(buf)

	if err := s.store.StoreKey(name, []byte(generated)); err != nil {
		return "", fmt.Errorf("failed to persist %s key: %w", name, err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "loadOrCreate",
		"key_name": name,
	}).Debug("Generated and persisted new key")

	return generated, nil
}
