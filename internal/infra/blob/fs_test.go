package blob

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/muzansiddig/Veritas-Legal/internal/domain"
)

func TestFSStoreRoundTrip(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	locator, err := store.Put(context.Background(), "firm-1/case-1/ev-1/contract.pdf", []byte("content"), "application/pdf")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if locator == "" {
		t.Fatal("empty locator")
	}
	if _, err := os.Stat(locator); err != nil {
		t.Fatalf("blob not on disk: %v", err)
	}

	data, err := store.Get(context.Background(), "firm-1/case-1/ev-1/contract.pdf")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(data) != "content" {
		t.Fatalf("got %q", data)
	}
}

func TestFSStoreGetMissing(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, err := store.Get(context.Background(), "firm-1/nothing.bin"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing blob: err = %v, want ErrNotFound", err)
	}
}

func TestFSStoreSanitizesHostileKeys(t *testing.T) {
	root := t.TempDir()
	store, err := NewFSStore(root)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	locator, err := store.Put(context.Background(), "../../etc/passwd", []byte("x"), "")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	abs, err := filepath.Abs(locator)
	if err != nil {
		t.Fatalf("abs: %v", err)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		t.Fatalf("abs root: %v", err)
	}
	if !strings.HasPrefix(abs, absRoot+string(filepath.Separator)) {
		t.Fatalf("blob escaped root: %s", abs)
	}

	if _, err := store.Put(context.Background(), "  ", []byte("x"), ""); err == nil {
		t.Fatal("expected error for blank key")
	}
	if _, err := store.Put(context.Background(), "../..", []byte("x"), ""); err == nil {
		t.Fatal("expected error for key with no usable segments")
	}
}

func TestFSStoreRejectsEmptyRoot(t *testing.T) {
	if _, err := NewFSStore("  "); err == nil {
		t.Fatal("expected error for blank root")
	}
}
