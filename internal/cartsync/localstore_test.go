package cartsync

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/velomart/storefront-backend/internal/cart"
	"github.com/velomart/storefront-backend/internal/settings"
)

func testFileStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(t.TempDir(), "test-session")
}

func seedLines() []cart.Line {
	return []cart.Line{{ProductID: 1, ProductName: "Ceramic Mug", UnitPrice: 250, Quantity: 2}}
}

func TestFileStore_RoundTrip(t *testing.T) {
	s := testFileStore(t)
	cfg := settings.DefaultCartConfig()

	if err := s.Save(seedLines(), cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	items := s.Load(cfg)
	if len(items) != 1 || items[0].Quantity != 2 {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	s := testFileStore(t)
	if items := s.Load(settings.DefaultCartConfig()); len(items) != 0 {
		t.Fatalf("missing file must read as empty, got %+v", items)
	}
}

func TestFileStore_CorruptPayloadIsEmpty(t *testing.T) {
	s := testFileStore(t)
	if err := os.WriteFile(s.path, []byte("{{{"), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if items := s.Load(settings.DefaultCartConfig()); len(items) != 0 {
		t.Fatalf("corrupt payload must read as empty, got %+v", items)
	}
	// the bad payload is discarded, not kept around
	if _, err := os.Stat(s.path); !os.IsNotExist(err) {
		t.Fatalf("corrupt payload should have been removed")
	}
}

func TestFileStore_ExpiryDiscard(t *testing.T) {
	s := testFileStore(t)
	cfg := settings.CartConfig{PersistCart: true, CartExpirationDays: 1}

	writeTime := time.Now()
	s.now = func() time.Time { return writeTime }
	if err := s.Save(seedLines(), cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// still inside the window
	s.now = func() time.Time { return writeTime.Add(23 * time.Hour) }
	if items := s.Load(cfg); len(items) != 1 {
		t.Fatalf("cart expired too early: %+v", items)
	}

	// window elapsed
	s.now = func() time.Time { return writeTime.Add(25 * time.Hour) }
	if items := s.Load(cfg); len(items) != 0 {
		t.Fatalf("expected expired cart to read as empty, got %+v", items)
	}
}

func TestFileStore_ShortenedWindowAppliesAtRead(t *testing.T) {
	s := testFileStore(t)

	writeTime := time.Now()
	s.now = func() time.Time { return writeTime }
	if err := s.Save(seedLines(), settings.CartConfig{PersistCart: true, CartExpirationDays: 30}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// admin shortened the window to 1 day; a 2-day-old payload is now stale
	s.now = func() time.Time { return writeTime.Add(48 * time.Hour) }
	if items := s.Load(settings.CartConfig{PersistCart: true, CartExpirationDays: 1}); len(items) != 0 {
		t.Fatalf("shortened window must discard old payloads, got %+v", items)
	}
}

func TestFileStore_ZeroDaysNeverExpires(t *testing.T) {
	s := testFileStore(t)
	cfg := settings.CartConfig{PersistCart: true, CartExpirationDays: 0}

	writeTime := time.Now()
	s.now = func() time.Time { return writeTime }
	if err := s.Save(seedLines(), cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	s.now = func() time.Time { return writeTime.Add(365 * 24 * time.Hour) }
	if items := s.Load(cfg); len(items) != 1 {
		t.Fatalf("0-day window must never expire, got %+v", items)
	}
}

func TestFileStore_DisabledPolicyDiscards(t *testing.T) {
	s := testFileStore(t)
	if err := s.Save(seedLines(), settings.DefaultCartConfig()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	disabled := settings.CartConfig{PersistCart: false}
	if items := s.Load(disabled); len(items) != 0 {
		t.Fatalf("disabled policy must read as empty, got %+v", items)
	}
	if _, err := os.Stat(s.path); !os.IsNotExist(err) {
		t.Fatalf("disabled policy must remove the payload")
	}
}

func TestFileStore_DisabledPolicySaveWithoutFile(t *testing.T) {
	s := testFileStore(t)
	disabled := settings.CartConfig{PersistCart: false}
	// nothing on disk yet; the no-op removal must not surface an error
	if err := s.Save(seedLines(), disabled); err != nil {
		t.Fatalf("save with persistence disabled and no file must succeed, got %v", err)
	}
	if _, err := os.Stat(s.path); !os.IsNotExist(err) {
		t.Fatalf("disabled policy must not write a payload")
	}
}

func TestNewFileStore_FreshNamespace(t *testing.T) {
	dir := t.TempDir()
	a := NewFileStore(dir, "")
	b := NewFileStore(dir, "")
	if a.path == b.path {
		t.Fatalf("empty session ids must get distinct namespaces")
	}
	if filepath.Dir(a.path) != dir {
		t.Fatalf("store escaped its directory: %s", a.path)
	}
}
