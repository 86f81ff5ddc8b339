package buildcache_test

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/asyncscript/asyncscript/internal/buildcache"
	"github.com/asyncscript/asyncscript/internal/descriptors"
)

func openTestCache(t *testing.T) *buildcache.Cache {
	t.Helper()
	c, err := buildcache.Open(filepath.Join(t.TempDir(), "cache.sqlite"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestStoreThenLookupRoundTrips(t *testing.T) {
	c := openTestCache(t)
	reg := descriptors.NewRegistry()

	syncFn := descriptors.New("syncFn", "")
	syncFn.MarkSync()
	reg.Register(syncFn)

	asyncFn := descriptors.New("asyncFn", "")
	asyncFn.MarkAsync()
	reg.Register(asyncFn)

	unit := uuid.New()
	hash := buildcache.ContentHash("var x = 1;")

	if err := c.Store(unit, hash, reg); err != nil {
		t.Fatalf("Store: %v", err)
	}

	results, ok, err := c.Lookup(unit, hash)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !ok {
		t.Fatal("expected a cache hit after Store")
	}
	if results["syncFn"] != descriptors.Sync {
		t.Errorf("syncFn: got %v, want Sync", results["syncFn"])
	}
	if results["asyncFn"] != descriptors.Async {
		t.Errorf("asyncFn: got %v, want Async", results["asyncFn"])
	}
}

func TestLookupMissOnUnknownUnit(t *testing.T) {
	c := openTestCache(t)
	_, ok, err := c.Lookup(uuid.New(), buildcache.ContentHash("anything"))
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if ok {
		t.Fatal("expected a cache miss for a never-stored unit")
	}
}

func TestLookupMissOnChangedContentHash(t *testing.T) {
	c := openTestCache(t)
	reg := descriptors.NewRegistry()
	fn := descriptors.New("f", "")
	fn.MarkSync()
	reg.Register(fn)

	unit := uuid.New()
	if err := c.Store(unit, buildcache.ContentHash("version one"), reg); err != nil {
		t.Fatalf("Store: %v", err)
	}

	_, ok, err := c.Lookup(unit, buildcache.ContentHash("version two"))
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if ok {
		t.Fatal("expected a cache miss after the source content changed")
	}
}
