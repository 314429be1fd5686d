package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	perr "lectern/internal/platform/errors"
	"lectern/internal/platform/store"
)

func TestOpen_Backends(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	lite := openLite(t, filepath.Join(t.TempDir(), "c.db"))
	st := &store.Store{Lite: lite}

	cases := []struct {
		backend string
		want    string
	}{
		{"", "*cache.File"},
		{"memory", "*cache.Memory"},
		{"FILE", "*cache.File"},
		{"sqlite", "*cache.SQL"},
	}
	for _, tc := range cases {
		s, err := Open(ctx, Config{Backend: tc.backend, Dir: t.TempDir()}, st)
		if err != nil {
			t.Fatalf("Open(%q): %v", tc.backend, err)
		}
		switch s.(type) {
		case *Memory:
			if tc.want != "*cache.Memory" {
				t.Fatalf("Open(%q) = Memory, want %s", tc.backend, tc.want)
			}
		case *File:
			if tc.want != "*cache.File" {
				t.Fatalf("Open(%q) = File, want %s", tc.backend, tc.want)
			}
		case *SQL:
			if tc.want != "*cache.SQL" {
				t.Fatalf("Open(%q) = SQL, want %s", tc.backend, tc.want)
			}
		}
	}
}

func TestOpen_ConfigErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	for _, b := range []string{"sqlite", "postgres", "s3", "redis"} {
		_, err := Open(ctx, Config{Backend: b}, &store.Store{})
		if !perr.IsCode(err, perr.ErrorCodeConfig) {
			t.Fatalf("Open(%q) err=%v, want config error", b, err)
		}
	}
}

func TestConfigFromEnv_DefaultsToFile(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "")
	os.Unsetenv("CACHE_BACKEND")

	c, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}
	if c.Backend != BackendFile {
		t.Fatalf("default backend = %q, want %q", c.Backend, BackendFile)
	}
	c.Dir = t.TempDir()
	s, err := Open(context.Background(), c, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := s.(*File); !ok {
		t.Fatalf("default store = %T, want *cache.File", s)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "file")
	t.Setenv("CACHE_DIR", "/tmp/lectern")
	t.Setenv("CACHE_RETAIN_MAX_AGE", "72h")
	t.Setenv("CACHE_S3_BUCKET", "lectern-cache")

	c, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}
	if c.Backend != "file" || c.Dir != "/tmp/lectern" || c.RetainMaxAge.Hours() != 72 {
		t.Fatalf("unexpected config %+v", c)
	}
	if c.S3.Bucket != "lectern-cache" || c.S3.Region != "us-east-1" || c.S3.Prefix != "lectern/" {
		t.Fatalf("s3 config %+v", c.S3)
	}
	if c.Namespace != DefaultNamespace {
		t.Fatalf("namespace default = %q", c.Namespace)
	}
}
