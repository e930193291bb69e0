package store

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/movierec/core"
)

func TestMemoryStoreBasic(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	if err := m.Set(ctx, "k1", []byte("v1")); err != nil {
		t.Fatal(err)
	}
	got, err := m.Get(ctx, "k1")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "v1" {
		t.Errorf("Get(k1) = %q, want v1", got)
	}

	if err := m.Delete(ctx, "k1"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Get(ctx, "k1"); !core.IsNotFound(err) {
		t.Errorf("Get after delete error = %v, want NOT_FOUND", err)
	}
}

func TestMemoryStoreTTL(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	if err := m.Set(ctx, "k1", []byte("v1"), 60); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Get(ctx, "k1"); err != nil {
		t.Errorf("Get within ttl error = %v", err)
	}

	// 直接把过期时间拨到过去，验证惰性过期
	past := time.Now().Add(-time.Second)
	m.mu.Lock()
	m.data["k1"].expire = &past
	m.mu.Unlock()

	if _, err := m.Get(ctx, "k1"); !core.IsNotFound(err) {
		t.Errorf("Get after expiry error = %v, want NOT_FOUND", err)
	}
}

func TestMemoryStoreBatch(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	if err := m.BatchSet(ctx, map[string][]byte{
		"a": []byte("1"),
		"b": []byte("2"),
	}); err != nil {
		t.Fatal(err)
	}

	got, err := m.BatchGet(ctx, []string{"a", "b", "missing"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if string(got["a"]) != "1" || string(got["b"]) != "2" {
		t.Errorf("BatchGet = %v", got)
	}
	if _, ok := got["missing"]; ok {
		t.Error("missing key present in result")
	}
}
