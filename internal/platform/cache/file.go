package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	perr "lectern/internal/platform/errors"
)

const entrySuffix = ".entry"

// File keeps one file per key under dir
// file names are the sha256 of the key so any key is a safe name
// writes go to a .part file first and are renamed into place
type File struct {
	dir             string
	retainMaxAge    time.Duration
	retainMaxBytes  int64
	cleanupEvery    time.Duration
	lastCleanupUnix atomic.Int64
}

// FileOption configures the file store
type FileOption func(*File)

// WithRetention sets optional age and size retention
// Pass zero to disable either dimension
func WithRetention(maxAge time.Duration, maxBytes int64) FileOption {
	return func(f *File) {
		f.retainMaxAge = maxAge
		f.retainMaxBytes = maxBytes
	}
}

// WithCleanupEvery throttles retention sweeps, default ten minutes
func WithCleanupEvery(d time.Duration) FileOption {
	return func(f *File) { f.cleanupEvery = d }
}

// NewFile creates dir when missing
func NewFile(dir string, opts ...FileOption) (*File, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, perr.Configf("cache: file backend needs a directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "cache: create %s", dir)
	}
	f := &File{dir: dir, cleanupEvery: 10 * time.Minute}
	for _, o := range opts {
		o(f)
	}
	return f, nil
}

func (f *File) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(f.dir, hex.EncodeToString(sum[:])+entrySuffix)
}

// Get reads the file for key
func (f *File) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	b, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, perr.Wrapf(err, perr.ErrorCodeDB, "cache: read %q", key)
	}
	return b, true, nil
}

// Set writes val atomically
func (f *File) Set(ctx context.Context, key string, val []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := f.path(key)
	tmp, err := os.CreateTemp(f.dir, filepath.Base(path)+".*.part")
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "cache: write %q", key)
	}
	tmpName := tmp.Name()
	_, werr := tmp.Write(val)
	cerr := tmp.Close()
	if werr == nil {
		werr = cerr
	}
	if werr == nil {
		werr = os.Rename(tmpName, path)
	}
	if werr != nil {
		_ = os.Remove(tmpName)
		return perr.Wrapf(werr, perr.ErrorCodeDB, "cache: write %q", key)
	}
	f.maybeCleanup()
	return nil
}

// Delete removes the file for key
func (f *File) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		return perr.Wrapf(err, perr.ErrorCodeDB, "cache: delete %q", key)
	}
	return nil
}

// maybeCleanup runs at most once per cleanupEvery
func (f *File) maybeCleanup() {
	if f.retainMaxAge <= 0 && f.retainMaxBytes <= 0 {
		return
	}
	now := time.Now().Unix()
	last := f.lastCleanupUnix.Load()
	if last != 0 && now-last < int64(f.cleanupEvery/time.Second) {
		return
	}
	if !f.lastCleanupUnix.CompareAndSwap(last, now) {
		return
	}
	_ = f.Sweep()
}

// Sweep applies age and size retention, oldest entries go first
func (f *File) Sweep() error {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return err
	}
	type item struct {
		path string
		size int64
		mod  time.Time
	}
	var items []item
	var total int64
	cutoff := time.Now().Add(-f.retainMaxAge)

	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), entrySuffix) {
			continue
		}
		fi, err := e.Info()
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		full := filepath.Join(f.dir, e.Name())
		if f.retainMaxAge > 0 && fi.ModTime().Before(cutoff) {
			_ = os.Remove(full)
			continue
		}
		items = append(items, item{path: full, size: fi.Size(), mod: fi.ModTime()})
		total += fi.Size()
	}

	if f.retainMaxBytes > 0 && total > f.retainMaxBytes {
		sort.Slice(items, func(i, j int) bool { return items[i].mod.Before(items[j].mod) })
		for _, it := range items {
			if total <= f.retainMaxBytes {
				break
			}
			_ = os.Remove(it.path)
			total -= it.size
		}
	}
	return nil
}
