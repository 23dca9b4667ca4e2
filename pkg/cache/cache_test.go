package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache.Get should always return miss")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	h := Hash([]byte("hello"))
	if len(h) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h))
	}
	if h != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h == Hash([]byte("world")) {
		t.Error("different inputs should hash differently")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	tests := []struct {
		name   string
		key    string
		prefix string
	}{
		{"dataset", k.DatasetKey("https://example.com/a.json"), "dataset:"},
		{"scene", k.SceneKey("abc", SceneKeyOpts{Width: 960, Height: 570}), "scene:"},
		{"artifact", k.ArtifactKey("abc", ArtifactKeyOpts{Format: "svg"}), "artifact:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.HasPrefix(tt.key, tt.prefix) {
				t.Errorf("key %q should start with %q", tt.key, tt.prefix)
			}
		})
	}

	t.Run("options change scene key", func(t *testing.T) {
		a := k.SceneKey("abc", SceneKeyOpts{Width: 960, Height: 570, Padding: 1})
		b := k.SceneKey("abc", SceneKeyOpts{Width: 960, Height: 570, Padding: 2})
		if a == b {
			t.Error("padding should be part of the scene key")
		}
	})

	t.Run("format changes artifact key", func(t *testing.T) {
		if k.ArtifactKey("abc", ArtifactKeyOpts{Format: "svg"}) == k.ArtifactKey("abc", ArtifactKeyOpts{Format: "png"}) {
			t.Error("format should be part of the artifact key")
		}
	})
}

func TestScopedKeyer(t *testing.T) {
	k := NewScopedKeyer(nil, "staging:")
	base := NewDefaultKeyer()

	if got, want := k.DatasetKey("x"), "staging:"+base.DatasetKey("x"); got != want {
		t.Errorf("DatasetKey = %q, want %q", got, want)
	}
	opts := SceneKeyOpts{Width: 10}
	if got, want := k.SceneKey("h", opts), "staging:"+base.SceneKey("h", opts); got != want {
		t.Errorf("SceneKey = %q, want %q", got, want)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if c.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", c.Dir(), dir)
	}

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("expected miss for unknown key")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || !hit {
		t.Fatalf("Get = hit %v, err %v", hit, err)
	}
	if string(data) != "value" {
		t.Errorf("Get = %q, want %q", data, "value")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("entry should be gone after Delete")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("deleting a missing key should not fail: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if err := c.Set(ctx, "short", []byte("v"), time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should miss")
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl should not expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	path := c.path("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v, want miss", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entries should be gone after Clear")
	}
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := DefaultDir()
	if err != nil {
		t.Fatalf("DefaultDir: %v", err)
	}
	if dir != filepath.Join("/tmp/xdg", "treemap") {
		t.Errorf("DefaultDir() = %q", dir)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"unknown backend", Config{Backend: "memcached"}, ErrUnknownBackend},
		{"redis without url", Config{Backend: "redis"}, ErrMissingAddress},
		{"mongo without uri", Config{Backend: "mongo"}, ErrMissingAddress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(ctx, tt.cfg)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Open() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("none", func(t *testing.T) {
		c, err := Open(ctx, Config{Backend: "none"})
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		if _, ok := c.(NullCache); !ok {
			t.Errorf("Open(none) = %T, want NullCache", c)
		}
	})

	t.Run("file", func(t *testing.T) {
		dir := t.TempDir()
		c, err := Open(ctx, Config{Dir: dir})
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		fc, ok := c.(*FileCache)
		if !ok || fc.Dir() != dir {
			t.Errorf("Open(file) = %T, want *FileCache in %s", c, dir)
		}
	})
}

// backendRoundTrip exercises a live backend.
func backendRoundTrip(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()
	key := "treemap-test:" + Hash([]byte(t.Name()))

	if err := c.Set(ctx, key, []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "value" {
		t.Fatalf("Get = %q hit=%v err=%v", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("entry should be gone after Delete")
	}
}

func TestRedisCache(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	c, err := NewRedisCache(context.Background(), url)
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()
	backendRoundTrip(t, c)
}

func TestMongoCache(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	c, err := NewMongoCache(context.Background(), uri, "treemap_test")
	if err != nil {
		t.Fatalf("NewMongoCache: %v", err)
	}
	defer c.Close()
	backendRoundTrip(t, c)
}
