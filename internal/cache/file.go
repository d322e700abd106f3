package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const fileVersion = "1.0"

type fileEntry struct {
	Key         string    `json:"key"`
	Translation string    `json:"translation"`
	CreatedAt   time.Time `json:"created_at"`
}

type cacheFile struct {
	Version string      `json:"version"`
	Entries []fileEntry `json:"entries"`
}

// File is a Memory store persisted as JSON. Entries are written on Flush
// and Close.
type File struct {
	*Memory
	path    string
	created map[string]time.Time
}

// OpenFile loads path if it exists and returns a store backed by it.
func OpenFile(path string) (*File, error) {
	f := &File{Memory: NewMemory(), path: path, created: make(map[string]time.Time)}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache file: %w", err)
	}
	var cf cacheFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse cache file: %w", err)
	}
	for _, e := range cf.Entries {
		f.entries[e.Key] = e.Translation
		f.created[e.Key] = e.CreatedAt
	}
	return f, nil
}

func (f *File) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = value
	if _, ok := f.created[key]; !ok {
		f.created[key] = time.Now().UTC()
	}
	return nil
}

// Flush writes the current entries to disk through a temp file and rename.
func (f *File) Flush() error {
	f.mu.RLock()
	cf := cacheFile{Version: fileVersion, Entries: make([]fileEntry, 0, len(f.entries))}
	for k, v := range f.entries {
		cf.Entries = append(cf.Entries, fileEntry{Key: k, Translation: v, CreatedAt: f.created[k]})
	}
	f.mu.RUnlock()
	sort.Slice(cf.Entries, func(i, j int) bool { return cf.Entries[i].Key < cf.Entries[j].Key })

	data, err := json.MarshalIndent(cf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache dir: %w", err)
		}
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace cache file: %w", err)
	}
	return nil
}

func (f *File) Close() error { return f.Flush() }
