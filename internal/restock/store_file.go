package restock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

const (
	jsonIndent   = "    "
	dataFileMode = 0o644
)

// FileStore keeps each collection in its own human-readable JSON document.
type FileStore struct {
	productsPath      string
	subscriptionsPath string
	log               *zap.Logger

	// one writer per file at a time
	productsMu      sync.Mutex
	subscriptionsMu sync.Mutex
}

func NewFileStore(productsPath, subscriptionsPath string, log *zap.Logger) *FileStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileStore{
		productsPath:      productsPath,
		subscriptionsPath: subscriptionsPath,
		log:               log,
	}
}

func (s *FileStore) LoadProducts(_ context.Context) ([]Product, error) {
	s.productsMu.Lock()
	defer s.productsMu.Unlock()
	return loadJSON[Product](s.log, s.productsPath), nil
}

func (s *FileStore) SaveProducts(_ context.Context, products []Product) error {
	s.productsMu.Lock()
	defer s.productsMu.Unlock()
	return saveJSON(s.productsPath, products)
}

func (s *FileStore) LoadSubscriptions(_ context.Context) ([]Subscription, error) {
	s.subscriptionsMu.Lock()
	defer s.subscriptionsMu.Unlock()
	return loadJSON[Subscription](s.log, s.subscriptionsPath), nil
}

func (s *FileStore) SaveSubscriptions(_ context.Context, subs []Subscription) error {
	s.subscriptionsMu.Lock()
	defer s.subscriptionsMu.Unlock()
	return saveJSON(s.subscriptionsPath, subs)
}

// Ping checks that both data directories exist.
func (s *FileStore) Ping(_ context.Context) error {
	for _, p := range []string{s.productsPath, s.subscriptionsPath} {
		dir := filepath.Dir(p)
		st, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("data dir %s: %w", dir, err)
		}
		if !st.IsDir() {
			return fmt.Errorf("data dir %s: not a directory", dir)
		}
	}
	return nil
}

func loadJSON[T any](log *zap.Logger, path string) []T {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info("data file missing, starting empty", zap.String("path", path))
		return []T{}
	}
	if err != nil {
		log.Error("read data file failed, starting empty", zap.String("path", path), zap.Error(err))
		return []T{}
	}

	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Error("decode data file failed, starting empty", zap.String("path", path), zap.Error(err))
		return []T{}
	}
	if out == nil {
		out = []T{}
	}
	return out
}

// saveJSON writes through a temp file and rename so a crash mid-write never
// leaves a truncated document behind.
func saveJSON[T any](path string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.MarshalIndent(items, "", jsonIndent)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(append(raw, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	// CreateTemp makes the file 0600; keep the document readable
	if err := tmp.Chmod(fileMode(path)); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func fileMode(path string) fs.FileMode {
	if st, err := os.Stat(path); err == nil {
		return st.Mode().Perm()
	}
	return dataFileMode
}
