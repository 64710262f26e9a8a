package cache

import (
	"testing"
	"time"
)

func TestGetSetRoundTrip(t *testing.T) {
	c, err := New(t.TempDir(), time.Hour, true)
	if err != nil {
		t.Fatal(err)
	}

	hash := HashBytes([]byte("original content"))
	if err := c.Set("src/App.java", hash, []byte("fixed content")); err != nil {
		t.Fatal(err)
	}

	data, ok := c.Get("src/App.java", hash)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(data) != "fixed content" {
		t.Errorf("data = %q", data)
	}
}

func TestGetRejectsStaleHash(t *testing.T) {
	c, err := New(t.TempDir(), time.Hour, true)
	if err != nil {
		t.Fatal(err)
	}

	hash := HashBytes([]byte("version one"))
	if err := c.Set("src/App.java", hash, []byte("fix for version one")); err != nil {
		t.Fatal(err)
	}

	// The file changed since the fix was cached.
	if _, ok := c.Get("src/App.java", HashBytes([]byte("version two"))); ok {
		t.Error("cache hit for changed content")
	}
}

func TestGetExpiredEntry(t *testing.T) {
	c, err := New(t.TempDir(), -time.Second, true)
	if err != nil {
		t.Fatal(err)
	}

	hash := HashBytes([]byte("content"))
	if err := c.Set("key", hash, []byte("data")); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("key", hash); ok {
		t.Error("expired entry returned")
	}
}

func TestDisabledCache(t *testing.T) {
	c, err := New("", 0, false)
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set("key", "hash", []byte("data")); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("key", "hash"); ok {
		t.Error("disabled cache returned a hit")
	}
	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
}

func TestInvalidate(t *testing.T) {
	c, err := New(t.TempDir(), time.Hour, true)
	if err != nil {
		t.Fatal(err)
	}

	hash := HashBytes([]byte("content"))
	if err := c.Set("key", hash, []byte("data")); err != nil {
		t.Fatal(err)
	}
	if err := c.Invalidate("key"); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("key", hash); ok {
		t.Error("invalidated entry returned")
	}
	// Invalidating a missing key is not an error.
	if err := c.Invalidate("absent"); err != nil {
		t.Fatal(err)
	}
}

func TestHashBytesDeterministic(t *testing.T) {
	a := HashBytes([]byte("same"))
	b := HashBytes([]byte("same"))
	if a != b {
		t.Errorf("hashes differ: %s vs %s", a, b)
	}
	if a == HashBytes([]byte("other")) {
		t.Error("distinct content produced equal hashes")
	}
}
