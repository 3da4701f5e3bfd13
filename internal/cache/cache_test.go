package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestGenerateKey(t *testing.T) {
	a := GenerateKey("openai", "gpt-3.5-turbo", "hello")
	b := GenerateKey("openai", "gpt-3.5-turbo", "hello")
	if a != b {
		t.Fatalf("keys for identical input differ: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("key length = %d, want 64 hex characters", len(a))
	}
	if c := GenerateKey("openai", "gpt-4", "hello"); c == a {
		t.Fatal("keys for different models should differ")
	}
	if c := GenerateKey("claude", "gpt-3.5-turbo", "hello"); c == a {
		t.Fatal("keys for different providers should differ")
	}
}

func TestSetGet(t *testing.T) {
	c := New(time.Minute, 0)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss for unknown key")
	}

	c.Set("k", "v")
	got, ok := c.Get("k")
	if !ok || got != "v" {
		t.Fatalf("Get = %q, %v", got, ok)
	}

	c.Set("k", "v2")
	if got, _ := c.Get("k"); got != "v2" {
		t.Fatalf("overwrite not visible, got %q", got)
	}
}

func TestExpiry(t *testing.T) {
	c := New(time.Minute, 0)
	c.SetWithTTL("short", "value", 100*time.Millisecond)

	if _, ok := c.Get("short"); !ok {
		t.Fatal("expected hit before expiry")
	}

	time.Sleep(150 * time.Millisecond)

	if _, ok := c.Get("short"); ok {
		t.Fatal("expected miss after expiry")
	}
}

func TestSetWithNonPositiveTTLRemovesKey(t *testing.T) {
	c := New(time.Minute, 0)
	c.Set("k", "v")
	c.SetWithTTL("k", "other", 0)

	if _, ok := c.Get("k"); ok {
		t.Fatal("expected key to be removed")
	}
	if c.Len() != 0 {
		t.Fatalf("Len = %d, want 0", c.Len())
	}
}

func TestDeleteAndClear(t *testing.T) {
	c := New(time.Minute, 0)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("c", "3")

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("deleted key still present")
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}

	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("Len after Clear = %d, want 0", c.Len())
	}
}

func TestCleanupExpired(t *testing.T) {
	c := New(time.Minute, 0)
	c.SetWithTTL("old", "x", 10*time.Millisecond)
	c.Set("fresh", "y")

	time.Sleep(30 * time.Millisecond)

	if c.Len() != 2 {
		t.Fatalf("Len before cleanup = %d, want 2", c.Len())
	}
	c.CleanupExpired()
	if c.Len() != 1 {
		t.Fatalf("Len after cleanup = %d, want 1", c.Len())
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Fatal("unexpired entry was removed")
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New(time.Minute, 0)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d-%d", n, j)
				c.Set(key, key)
				if got, ok := c.Get(key); !ok || got != key {
					t.Errorf("Get(%q) = %q, %v", key, got, ok)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	if c.Len() != 1600 {
		t.Fatalf("Len = %d, want 1600", c.Len())
	}
}
