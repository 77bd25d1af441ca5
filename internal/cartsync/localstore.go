package cartsync

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/velomart/storefront-backend/internal/cart"
	"github.com/velomart/storefront-backend/internal/settings"
)

// LocalStore persists a guest cart on the client device. Reads are total:
// a missing file, a corrupt payload, an elapsed expiry or a disabled policy
// are all just an empty cart.
type LocalStore interface {
	Load(cfg settings.CartConfig) []cart.Line
	Save(items []cart.Line, cfg settings.CartConfig) error
	Clear() error
}

// storedCart is the on-disk payload. SavedAt is checked against the policy
// window current at read time, so a shortened window takes effect on old
// payloads too; ExpiresAt is the stamp computed when the payload was written.
type storedCart struct {
	Items     []cart.Line `json:"items"`
	SavedAt   time.Time   `json:"savedAt"`
	ExpiresAt *time.Time  `json:"expiresAt,omitempty"`
}

// FileStore keeps the guest cart in a JSON file under a per-session
// namespace.
type FileStore struct {
	path string
	now  func() time.Time
}

// NewFileStore creates a store for the given session id (an empty id gets a
// fresh uuid namespace).
func NewFileStore(dir, sessionID string) *FileStore {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	return &FileStore{
		path: filepath.Join(dir, "storefront-cart-"+sessionID+".json"),
		now:  time.Now,
	}
}

func (s *FileStore) Load(cfg settings.CartConfig) []cart.Line {
	if !cfg.PersistCart {
		// policy turned off: discard whatever is on disk
		_ = os.Remove(s.path)
		return []cart.Line{}
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return []cart.Line{}
	}

	var stored storedCart
	if err := json.Unmarshal(raw, &stored); err != nil {
		_ = os.Remove(s.path)
		return []cart.Line{}
	}

	if s.expired(stored, cfg) {
		_ = os.Remove(s.path)
		return []cart.Line{}
	}

	if stored.Items == nil {
		return []cart.Line{}
	}
	return stored.Items
}

func (s *FileStore) Save(items []cart.Line, cfg settings.CartConfig) error {
	if !cfg.PersistCart {
		err := os.Remove(s.path)
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if items == nil {
		items = []cart.Line{}
	}

	stored := storedCart{Items: items, SavedAt: s.now()}
	if cfg.CartExpirationDays > 0 {
		exp := stored.SavedAt.Add(time.Duration(cfg.CartExpirationDays) * 24 * time.Hour)
		stored.ExpiresAt = &exp
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// expired applies both the write-time stamp and the policy window in force
// now, so an admin shortening the window invalidates old payloads.
func (s *FileStore) expired(stored storedCart, cfg settings.CartConfig) bool {
	now := s.now()
	if stored.ExpiresAt != nil && !stored.ExpiresAt.After(now) {
		return true
	}
	if cfg.CartExpirationDays > 0 && !stored.SavedAt.IsZero() {
		window := time.Duration(cfg.CartExpirationDays) * 24 * time.Hour
		if !stored.SavedAt.Add(window).After(now) {
			return true
		}
	}
	return false
}
