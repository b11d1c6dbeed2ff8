package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T, prefix string) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheHelper(client, prefix), srv
}

type cachedEvent struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func TestCacheHelper_SetGet(t *testing.T) {
	ctx := context.Background()
	helper, srv := newTestCache(t, "event:")

	in := cachedEvent{ID: 7, Title: "Robotics Workshop"}
	if err := helper.Set(ctx, "id:7", in, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var out cachedEvent
	if err := helper.Get(ctx, "id:7", &out); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if out != in {
		t.Errorf("round trip mismatch: got %+v", out)
	}

	if !srv.Exists("event:id:7") {
		t.Error("expected prefixed key in redis")
	}

	t.Run("miss returns ErrCacheNotFound", func(t *testing.T) {
		var miss cachedEvent
		if err := helper.Get(ctx, "id:999", &miss); !errors.Is(err, ErrCacheNotFound) {
			t.Errorf("expected ErrCacheNotFound, got %v", err)
		}
	})

	t.Run("expired key misses", func(t *testing.T) {
		srv.FastForward(2 * time.Minute)
		var expired cachedEvent
		if err := helper.Get(ctx, "id:7", &expired); !errors.Is(err, ErrCacheNotFound) {
			t.Errorf("expected ErrCacheNotFound after TTL, got %v", err)
		}
	})
}

func TestCacheHelper_DeleteAndExists(t *testing.T) {
	ctx := context.Background()
	helper, _ := newTestCache(t, "event:")

	for _, key := range []string{"id:1", "id:2", "id:3"} {
		if err := helper.Set(ctx, key, cachedEvent{ID: 1}, time.Minute); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	exists, err := helper.Exists(ctx, "id:1")
	if err != nil || !exists {
		t.Fatalf("expected id:1 to exist, got exists=%v err=%v", exists, err)
	}

	if err := helper.Delete(ctx, "id:1", "id:2"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	exists, _ = helper.Exists(ctx, "id:1")
	if exists {
		t.Error("expected id:1 deleted")
	}
	exists, _ = helper.Exists(ctx, "id:3")
	if !exists {
		t.Error("expected id:3 untouched")
	}
}

func TestCacheHelper_InvalidatePattern(t *testing.T) {
	ctx := context.Background()
	helper, _ := newTestCache(t, "event:")

	for _, key := range []string{"list:page1", "list:page2", "id:5"} {
		if err := helper.Set(ctx, key, cachedEvent{}, time.Minute); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	if err := helper.InvalidatePattern(ctx, "list:*"); err != nil {
		t.Fatalf("InvalidatePattern failed: %v", err)
	}

	for _, key := range []string{"list:page1", "list:page2"} {
		if exists, _ := helper.Exists(ctx, key); exists {
			t.Errorf("expected %s invalidated", key)
		}
	}
	if exists, _ := helper.Exists(ctx, "id:5"); !exists {
		t.Error("expected id:5 to survive pattern invalidation")
	}
}

func TestCacheHelper_NilClient(t *testing.T) {
	ctx := context.Background()
	helper := NewCacheHelper(nil, "event:")

	if err := helper.Set(ctx, "id:1", cachedEvent{}, time.Minute); err != nil {
		t.Errorf("Set on nil client must degrade gracefully, got %v", err)
	}
	var out cachedEvent
	if err := helper.Get(ctx, "id:1", &out); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("expected ErrCacheNotAvailable, got %v", err)
	}
	if err := helper.Delete(ctx, "id:1"); err != nil {
		t.Errorf("Delete on nil client must be a no-op, got %v", err)
	}
}

func TestCacheHelper_CacheOrExecute(t *testing.T) {
	ctx := context.Background()
	helper, _ := newTestCache(t, "event:")

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return cachedEvent{ID: 9, Title: "Hackathon"}, nil
	}

	var first cachedEvent
	if err := helper.CacheOrExecute(ctx, "id:9", &first, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute failed: %v", err)
	}
	if first.Title != "Hackathon" || calls != 1 {
		t.Fatalf("expected one fetch, got %d, value %+v", calls, first)
	}

	// The async Set races the second read; wait for the key to land
	deadline := time.Now().Add(2 * time.Second)
	for {
		if exists, _ := helper.Exists(ctx, "id:9"); exists || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	var second cachedEvent
	if err := helper.CacheOrExecute(ctx, "id:9", &second, time.Minute, fetch); err != nil {
		t.Fatalf("second CacheOrExecute failed: %v", err)
	}
	if second.Title != "Hackathon" {
		t.Errorf("unexpected cached value: %+v", second)
	}
	if calls != 1 {
		t.Errorf("expected cache hit on second call, fetch ran %d times", calls)
	}
}
