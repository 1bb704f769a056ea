package cache_test

import (
	"testing"
	"time"

	"github.com/docket-app/docket/internal/cache"
)

func TestSetUsesDefaultTTL(t *testing.T) {
	c := cache.New(20 * time.Millisecond)

	c.Set("k", "v")

	v, ok := c.Get("k")

	if !ok || v != "v" {
		t.Fatalf("expected a live entry, got %v ok=%v", v, ok)
	}

	time.Sleep(40 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatalf("entry must expire after the default TTL")
	}
}

func TestSetTTLOverridesDefault(t *testing.T) {
	c := cache.New(time.Hour)

	c.SetTTL("short", "v", 20*time.Millisecond)
	c.Set("long", "v")

	time.Sleep(40 * time.Millisecond)

	if _, ok := c.Get("short"); ok {
		t.Fatalf("per-entry TTL must win over the default")
	}

	if _, ok := c.Get("long"); !ok {
		t.Fatalf("default-TTL entry must still be live")
	}
}

func TestDeleteReportsLiveRemoval(t *testing.T) {
	c := cache.New(time.Hour)

	c.Set("k", "v")

	if !c.Delete("k") {
		t.Fatalf("deleting a live entry must report removal")
	}

	if c.Delete("k") {
		t.Fatalf("deleting an absent entry must not report removal")
	}

	// an expired entry counts as already gone
	c.SetTTL("stale", "v", 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	if c.Delete("stale") {
		t.Fatalf("deleting an expired entry must not report removal")
	}
}

func TestClear(t *testing.T) {
	c := cache.New(time.Hour)

	c.Set("a", 1)
	c.Set("b", 2)

	c.Clear()

	if _, ok := c.Get("a"); ok {
		t.Fatalf("clear must drop every entry")
	}

	if _, ok := c.Get("b"); ok {
		t.Fatalf("clear must drop every entry")
	}
}
