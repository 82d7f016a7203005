package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/zalando/go-keyring"
)

const (
	service = "fittrack-cli"
)

// ErrNoSession is returned by a Backend when no record is stored
var ErrNoSession = errors.New("no stored session")

// Backend persists one serialized session record. Implementations must treat
// Delete of a missing record as a no-op so logout stays idempotent.
type Backend interface {
	Save(data []byte) error
	Load() ([]byte, error)
	Delete() error
}

// KeyringBackend stores the session in the OS keychain/credential manager,
// one record per server host.
type KeyringBackend struct {
	host string
}

// NewKeyringBackend creates a keyring-backed store for the given server host
func NewKeyringBackend(host string) *KeyringBackend {
	return &KeyringBackend{host: host}
}

func (b *KeyringBackend) key() string {
	return fmt.Sprintf("session-%s", b.host)
}

func (b *KeyringBackend) Save(data []byte) error {
	if err := keyring.Set(service, b.key(), string(data)); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (b *KeyringBackend) Load() ([]byte, error) {
	data, err := keyring.Get(service, b.key())
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return []byte(data), nil
}

func (b *KeyringBackend) Delete() error {
	if err := keyring.Delete(service, b.key()); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// MemoryBackend is an in-memory Backend for tests
type MemoryBackend struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (b *MemoryBackend) Save(data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append([]byte(nil), data...)
	return nil
}

func (b *MemoryBackend) Load() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.data == nil {
		return nil, ErrNoSession
	}
	return append([]byte(nil), b.data...), nil
}

func (b *MemoryBackend) Delete() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = nil
	return nil
}
