package acquire

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/verdantlabs/carbonpeer/config"
)

// BlobStore persists document bytes encrypted at rest, keyed by
// (tenant, doc_id). Identical content is written once.
type BlobStore struct {
	dir  string
	aead cipher.AEAD
}

// NewBlobStore builds the encrypted blob store. The key must be a
// hex-encoded 32-byte value. An empty key yields a disabled store whose
// Put and Get fail, so seed-only deployments run without one while any
// fetched document surfaces a clear configuration error.
func NewBlobStore(cfg config.BlobConfig) (*BlobStore, error) {
	if cfg.Key == "" {
		return &BlobStore{dir: cfg.Dir}, nil
	}
	key, err := hex.DecodeString(cfg.Key)
	if err != nil {
		return nil, eris.Wrap(err, "acquire: decode blob key")
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, eris.Errorf("acquire: blob key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, eris.Wrap(err, "acquire: build cipher")
	}
	return &BlobStore{dir: cfg.Dir, aead: aead}, nil
}

func (b *BlobStore) path(tenantID, docID string) string {
	return filepath.Join(b.dir, tenantID, docID+".bin")
}

// Put encrypts and writes the payload unless a blob for this doc_id
// already exists for this tenant. It returns the storage reference and
// whether the blob was already present.
func (b *BlobStore) Put(tenantID, docID string, data []byte) (string, bool, error) {
	if b.aead == nil {
		return "", false, eris.New("acquire: blob encryption key not configured")
	}
	path := b.path(tenantID, docID)
	if _, err := os.Stat(path); err == nil {
		return path, true, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", false, eris.Wrap(err, "acquire: create blob dir")
	}

	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return "", false, eris.Wrap(err, "acquire: generate nonce")
	}
	sealed := b.aead.Seal(nonce, nonce, data, []byte(tenantID+"/"+docID))

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, sealed, 0o600); err != nil {
		return "", false, eris.Wrap(err, "acquire: write blob")
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", false, eris.Wrap(err, "acquire: finalize blob")
	}
	return path, false, nil
}

// Get reads and decrypts a stored blob.
func (b *BlobStore) Get(tenantID, docID string) ([]byte, error) {
	if b.aead == nil {
		return nil, eris.New("acquire: blob encryption key not configured")
	}
	sealed, err := os.ReadFile(b.path(tenantID, docID))
	if err != nil {
		return nil, eris.Wrap(err, "acquire: read blob")
	}
	if len(sealed) < chacha20poly1305.NonceSizeX {
		return nil, eris.New("acquire: blob too short")
	}

	nonce, ciphertext := sealed[:chacha20poly1305.NonceSizeX], sealed[chacha20poly1305.NonceSizeX:]
	data, err := b.aead.Open(nil, nonce, ciphertext, []byte(tenantID+"/"+docID))
	if err != nil {
		return nil, eris.Wrap(err, "acquire: decrypt blob")
	}
	return data, nil
}
