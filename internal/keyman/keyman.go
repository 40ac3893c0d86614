// Package keyman generates and persists the ed25519 keypairs embedded into
// contract containers.
//
// The on-disk layout is the legacy one other TVM tooling reads: the secret
// file holds the raw 64-byte expanded key (32-byte seed followed by the
// 32-byte public half), the public file holds the raw 32-byte public key.
package keyman

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"os"
)

// Keypair is an ed25519 signing pair.
type Keypair struct {
	Public ed25519.PublicKey
	Secret ed25519.PrivateKey
}

// Generate creates a fresh random keypair.
func Generate() (Keypair, error) {
	pub, sec, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return Keypair{}, fmt.Errorf("failed to generate keypair: %w", err)
	}
	return Keypair{Public: pub, Secret: sec}, nil
}

// Load reads a keypair from a secret file produced by StoreSecret.
func Load(path string) (Keypair, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Keypair{}, fmt.Errorf("failed to read keypair: %w", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return Keypair{}, fmt.Errorf("failed to read keypair: %s holds %d bytes, want %d",
			path, len(raw), ed25519.PrivateKeySize)
	}
	sec := ed25519.PrivateKey(raw)
	pub, ok := sec.Public().(ed25519.PublicKey)
	if !ok {
		return Keypair{}, fmt.Errorf("failed to read keypair: %s", path)
	}
	// The stored public half must agree with the seed; a mismatch means the
	// file was truncated and glued back, or edited.
	if !bytes.Equal(raw[ed25519.SeedSize:], pub) {
		return Keypair{}, fmt.Errorf("corrupted keypair file %s: public half does not match the seed", path)
	}
	return Keypair{Public: pub, Secret: sec}, nil
}

// StoreSecret writes the raw 64-byte secret to path.
func (kp Keypair) StoreSecret(path string) error {
	if err := os.WriteFile(path, kp.Secret, 0o600); err != nil {
		return fmt.Errorf("failed to store secret key: %w", err)
	}
	return nil
}

// StorePublic writes the raw 32-byte public key to path.
func (kp Keypair) StorePublic(path string) error {
	if err := os.WriteFile(path, kp.Public, 0o600); err != nil {
		return fmt.Errorf("failed to store public key: %w", err)
	}
	return nil
}
