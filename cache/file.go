package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/natefinch/atomic"

	"github.com/jonwraymond/filememo/health"
)

// CompressedExt is appended to entry names when compression is enabled.
const CompressedExt = ".zst"

// FileCacheConfig configures a FileCache.
type FileCacheConfig struct {
	// Dir is the directory holding entries.
	// Default: Dir() (MEMO_CACHE_DIR or DefaultDir)
	Dir string

	// CompressionLevel enables zstd compression of entries (1-22).
	// Default: 0 (disabled)
	CompressionLevel int
}

// FileCache stores one file per entry in a single directory.
//
// The directory is created, if absent, before every lookup and write. Writes
// go to a temporary file that is renamed into place, so readers never see a
// partial entry. There is no index and no eviction.
type FileCache struct {
	dir     string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// EntryInfo describes an entry on disk.
type EntryInfo struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// NewFileCache creates a file-backed cache. It does not touch the disk.
func NewFileCache(cfg FileCacheConfig) (*FileCache, error) {
	dir := cfg.Dir
	if dir == "" {
		var err error
		if dir, err = Dir(); err != nil {
			return nil, err
		}
	}

	c := &FileCache{dir: dir}

	if cfg.CompressionLevel > 0 {
		var err error
		c.encoder, err = zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(cfg.CompressionLevel)))
		if err != nil {
			return nil, fmt.Errorf("cache: create zstd encoder: %w", err)
		}
		c.decoder, err = zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("cache: create zstd decoder: %w", err)
		}
	}

	return c, nil
}

// Dir returns the directory holding entries.
func (c *FileCache) Dir() string {
	return c.dir
}

// Path returns the file path for the entry name.
func (c *FileCache) Path(name string) string {
	if c.encoder != nil {
		name += CompressedExt
	}
	return filepath.Join(c.dir, name)
}

func (c *FileCache) ensureDir() error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("cache: create directory: %w", err)
	}
	return nil
}

// Get reads the entry stored under name.
func (c *FileCache) Get(_ context.Context, name string) ([]byte, bool, error) {
	if err := ValidateName(name); err != nil {
		return nil, false, err
	}
	if err := c.ensureDir(); err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(c.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: read %s: %w", name, err)
	}

	if c.decoder != nil {
		data, err = c.decoder.DecodeAll(data, nil)
		if err != nil {
			return nil, false, fmt.Errorf("%w: %s: %v", ErrCorrupt, name, err)
		}
	}
	return data, true, nil
}

// Set writes data under name atomically.
func (c *FileCache) Set(_ context.Context, name string, data []byte) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := c.ensureDir(); err != nil {
		return err
	}

	if c.encoder != nil {
		data = c.encoder.EncodeAll(data, nil)
	}

	if err := atomic.WriteFile(c.Path(name), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("cache: write %s: %w", name, err)
	}
	return nil
}

// Delete removes the entry stored under name. Idempotent - no error on miss.
func (c *FileCache) Delete(_ context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := os.Remove(c.Path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cache: delete %s: %w", name, err)
	}
	return nil
}

// List returns every entry in the directory, sorted by name. A missing
// directory yields no entries.
func (c *FileCache) List(ctx context.Context) ([]EntryInfo, error) {
	dirEntries, err := os.ReadDir(c.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache: list: %w", err)
	}

	entries := make([]EntryInfo, 0, len(dirEntries))
	for _, de := range dirEntries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !de.Type().IsRegular() {
			continue
		}
		info, err := de.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		entries = append(entries, EntryInfo{
			Name:    de.Name(),
			Path:    filepath.Join(c.dir, de.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Purge removes entries last written more than olderThan ago and returns how
// many were removed. olderThan <= 0 removes every entry.
func (c *FileCache) Purge(ctx context.Context, olderThan time.Duration) (int, error) {
	entries, err := c.List(ctx)
	if err != nil {
		return 0, err
	}

	var (
		removed int
		errs    []error
	)
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if olderThan > 0 && time.Since(e.ModTime) <= olderThan {
			continue
		}
		if err := os.Remove(e.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove %s: %w", e.Name, err))
			continue
		}
		removed++
	}

	if len(errs) > 0 {
		return removed, fmt.Errorf("cache: purge: %w", errors.Join(errs...))
	}
	return removed, nil
}

// Name returns the name of this checker.
func (c *FileCache) Name() string {
	return "filecache"
}

// Check verifies the directory can be created and written.
func (c *FileCache) Check(ctx context.Context) health.Result {
	select {
	case <-ctx.Done():
		return health.Unhealthy("context cancelled", ctx.Err())
	default:
	}

	if err := c.ensureDir(); err != nil {
		return health.Unhealthy("cache directory unavailable", err)
	}

	probe, err := os.CreateTemp(c.dir, ".probe-*")
	if err != nil {
		return health.Unhealthy("cache directory not writable", err)
	}
	probe.Close()
	os.Remove(probe.Name())

	entries, err := c.List(ctx)
	if err != nil {
		return health.Degraded("cache directory not listable").WithDetails(map[string]any{
			"dir":   c.dir,
			"error": err.Error(),
		})
	}

	var size int64
	for _, e := range entries {
		size += e.Size
	}

	return health.Healthy(fmt.Sprintf("%d entries", len(entries))).WithDetails(map[string]any{
		"dir":         c.dir,
		"entries":     len(entries),
		"size_bytes":  size,
		"compression": c.encoder != nil,
	})
}

// Ensure FileCache implements Cache and health.Checker
var (
	_ Cache          = (*FileCache)(nil)
	_ health.Checker = (*FileCache)(nil)
)
