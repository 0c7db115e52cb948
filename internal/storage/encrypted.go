package storage

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"io"
	"time"

	"github.com/KirkDiggler/dnd-mcp/internal/errors"
)

// Encrypted seals values with AES-256-GCM before handing them to the inner
// store. Keys are stored in the clear so namespacing and scans keep working.
type Encrypted struct {
	inner Store
	aead  cipher.AEAD
}

// NewEncrypted wraps inner. key must be 32 bytes.
func NewEncrypted(inner Store, key []byte) (*Encrypted, error) {
	if inner == nil {
		return nil, errors.InvalidArgument("inner store is required")
	}
	if len(key) != 32 {
		return nil, errors.InvalidArgumentf("encryption key must be 32 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "new cipher")
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Wrap(err, "new gcm")
	}

	return &Encrypted{inner: inner, aead: aead}, nil
}

// Get decrypts the stored value
func (e *Encrypted) Get(ctx context.Context, key string) ([]byte, error) {
	sealed, err := e.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	nonceSize := e.aead.NonceSize()
	if len(sealed) < nonceSize {
		return nil, errors.DataLoss("sealed value is too short").WithMeta(errors.MetaKey, key)
	}

	plaintext, err := e.aead.Open(nil, sealed[:nonceSize], sealed[nonceSize:], []byte(key))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "decrypt value").
			WithMeta(errors.MetaKey, key)
	}
	return plaintext, nil
}

// Set encrypts value and stores nonce || ciphertext. The key is bound as
// additional data so a value copied to another key fails to open.
func (e *Encrypted) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return errors.Wrap(err, "read nonce")
	}

	sealed := e.aead.Seal(nonce, nonce, value, []byte(key))
	return e.inner.Set(ctx, key, sealed, ttl)
}

// Delete passes through
func (e *Encrypted) Delete(ctx context.Context, key string) error {
	return e.inner.Delete(ctx, key)
}

// Exists passes through
func (e *Encrypted) Exists(ctx context.Context, key string) (bool, error) {
	return e.inner.Exists(ctx, key)
}

// Keys passes through when the inner store can scan
func (e *Encrypted) Keys(ctx context.Context, prefix string) ([]string, error) {
	scanner, ok := e.inner.(Scanner)
	if !ok {
		return nil, errors.Unimplemented("inner store cannot list keys")
	}
	return scanner.Keys(ctx, prefix)
}

// Close closes the inner store
func (e *Encrypted) Close() error {
	return e.inner.Close()
}
