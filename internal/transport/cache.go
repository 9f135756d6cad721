package transport

import (
	"context"
	"os"
	"path/filepath"

	"github.com/acherm/PL-ultimate/pkg/constants"
	"github.com/acherm/PL-ultimate/pkg/errors"
	"github.com/acherm/PL-ultimate/pkg/logging"
)

// Cache stores raw payloads under a directory, one file per name.
type Cache struct {
	dir     string
	offline bool
}

// NewCache returns a cache rooted at dir. An offline cache never fetches.
func NewCache(dir string, offline bool) *Cache {
	return &Cache{dir: dir, offline: offline}
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// Offline reports whether the cache serves only stored payloads.
func (c *Cache) Offline() bool { return c.offline }

// Path returns the file path for name.
func (c *Cache) Path(name string) string {
	return filepath.Join(c.dir, name)
}

// Read returns the stored payload for name. A missing file is a
// NotFoundError.
func (c *Cache) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(c.Path(name))
	if os.IsNotExist(err) {
		return nil, errors.NewNotFoundError("raw payload", c.Path(name))
	}
	if err != nil {
		return nil, errors.WrapIO("read", c.Path(name), err)
	}
	return data, nil
}

// Write stores data for name, replacing any previous payload atomically.
func (c *Cache) Write(name string, data []byte) error {
	path := c.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.WrapIO("write", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapIO("close", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), constants.FilePermissions); err != nil {
		return errors.WrapIO("chmod", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.WrapIO("rename", path, err)
	}
	return nil
}

// Fetch returns the payload for name. Offline caches read the stored copy;
// otherwise fetch runs and its result is stored before being returned.
func (c *Cache) Fetch(ctx context.Context, name string, fetch func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	logger := logging.FromContext(ctx).With().Str("payload", name).Logger()
	if c.offline {
		logger.Debug().Msg("Reading cached payload")
		return c.Read(name)
	}
	data, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.Write(name, data); err != nil {
		return nil, err
	}
	logger.Debug().Int("bytes", len(data)).Msg("Cached payload")
	return data, nil
}
