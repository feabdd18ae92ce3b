package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	docsdomain "github.com/smallbiznis/tariffdesk/internal/docs/domain"
	"go.uber.org/zap"
)

// FileConfig configures the JSON file store.
type FileConfig struct {
	Path     string
	ReadOnly bool
	Seed     []docsdomain.DocEntry
}

// FileStore keeps the registry as a pretty-printed JSON array.
type FileStore struct {
	path     string
	readOnly bool
	seed     []docsdomain.DocEntry
	log      *zap.Logger
}

func NewFileStore(cfg FileConfig, log *zap.Logger) *FileStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileStore{
		path:     cfg.Path,
		readOnly: cfg.ReadOnly,
		seed:     cfg.Seed,
		log:      log.Named("docs.file_store"),
	}
}

func (s *FileStore) Writable() bool { return !s.readOnly }

// Load reads the registry, seeding the file on first run. In read-only mode a
// missing file reads as an empty registry.
func (s *FileStore) Load(ctx context.Context) ([]docsdomain.DocEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ensureFile(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if s.readOnly && errors.Is(err, fs.ErrNotExist) {
			return []docsdomain.DocEntry{}, nil
		}
		return nil, fmt.Errorf("%w: %v", docsdomain.ErrStoreUnavailable, err)
	}

	var docs []docsdomain.DocEntry
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("%w: %v", docsdomain.ErrCorruptStore, err)
	}
	if docs == nil {
		docs = []docsdomain.DocEntry{}
	}
	return docs, nil
}

// Save writes docs sorted by title. It is a no-op in read-only mode.
func (s *FileStore) Save(ctx context.Context, docs []docsdomain.DocEntry) error {
	if s.readOnly {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.write(sortByTitle(docs))
}

func (s *FileStore) ensureFile() error {
	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", docsdomain.ErrStoreUnavailable, err)
	}
	if s.readOnly {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", docsdomain.ErrStoreUnavailable, err)
	}
	s.log.Info("seeding docs file", zap.String("path", s.path), zap.Int("entries", len(s.seed)))
	seed := s.seed
	if seed == nil {
		seed = []docsdomain.DocEntry{}
	}
	return s.write(seed)
}

func (s *FileStore) write(docs []docsdomain.DocEntry) error {
	payload, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".docs-*.json")
	if err != nil {
		return fmt.Errorf("%w: %v", docsdomain.ErrStoreUnavailable, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", docsdomain.ErrStoreUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", docsdomain.ErrStoreUnavailable, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: %v", docsdomain.ErrStoreUnavailable, err)
	}
	return nil
}
