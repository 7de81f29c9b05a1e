// Package diskcache implements cache.Store on the filesystem. Each
// partition is a directory; entries are zstd-compressed JSON blobs named by
// the hash of their request key, so precached assets survive restarts.
package diskcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"artesanal/internal/cache"
)

var zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
var zstdDecoder, _ = zstd.NewReader(nil)

// Store keeps cache partitions under a root directory.
type Store struct {
	root string
	mu   sync.Mutex
}

// New creates the root directory if needed.
func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Store{root: root}, nil
}

var _ cache.Store = (*Store)(nil)

// Open returns the named partition, creating its directory on first use.
func (s *Store) Open(name string) (cache.Partition, error) {
	dir := filepath.Join(s.root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create partition %s: %w", name, err)
	}
	return &partition{dir: dir}, nil
}

// Names lists existing partition directories.
func (s *Store) Names() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Drop removes the partition directory and its contents.
func (s *Store) Drop(name string) error {
	return os.RemoveAll(filepath.Join(s.root, name))
}

// storedEntry carries the original key alongside the entry so Keys can
// recover it from the hashed filename.
type storedEntry struct {
	Key   string      `json:"key"`
	Entry cache.Entry `json:"entry"`
}

type partition struct {
	dir string
	mu  sync.Mutex
}

func entryFile(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:]) + ".zst"
}

func (p *partition) Match(ctx context.Context, key string) (*cache.Entry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	data, err := os.ReadFile(filepath.Join(p.dir, entryFile(key)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	se, err := decodeEntry(data)
	if err != nil {
		return nil, err
	}
	return &se.Entry, nil
}

func (p *partition) Put(ctx context.Context, key string, e *cache.Entry) error {
	raw, err := json.Marshal(storedEntry{Key: key, Entry: *e})
	if err != nil {
		return err
	}
	compressed := zstdEncoder.EncodeAll(raw, nil)

	p.mu.Lock()
	defer p.mu.Unlock()
	// write-then-rename so a crashed write never leaves a torn entry
	path := filepath.Join(p.dir, entryFile(key))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, compressed, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (p *partition) Delete(ctx context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := os.Remove(filepath.Join(p.dir, entryFile(key)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (p *partition) Keys(ctx context.Context) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	files, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".zst" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(p.dir, f.Name()))
		if err != nil {
			return nil, err
		}
		se, err := decodeEntry(data)
		if err != nil {
			return nil, err
		}
		keys = append(keys, se.Key)
	}
	return keys, nil
}

func decodeEntry(compressed []byte) (*storedEntry, error) {
	raw, err := zstdDecoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress cache entry: %w", err)
	}
	var se storedEntry
	if err := json.Unmarshal(raw, &se); err != nil {
		return nil, fmt.Errorf("decode cache entry: %w", err)
	}
	return &se, nil
}
