package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"egg-grader/internal/domain/entity"
	"egg-grader/internal/domain/port"
)

// DirImageStore складывает вырезанные снимки в один каталог.
type DirImageStore struct {
	dir string
}

// NewDirImageStore создаёт каталог, если его нет.
func NewDirImageStore(dir string) (*DirImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create image directory: %v", entity.ErrPersistence, err)
	}
	return &DirImageStore{dir: dir}, nil
}

// Dir каталог со снимками.
func (s *DirImageStore) Dir() string {
	return s.dir
}

// Save записывает снимок под именем name и возвращает полный путь.
func (s *DirImageStore) Save(ctx context.Context, name string, crop entity.Frame) (string, error) {
	if len(crop.Data) == 0 {
		return "", fmt.Errorf("%w: empty image", entity.ErrPersistence)
	}

	path := filepath.Join(s.dir, sanitizeFileName(name))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, crop.Data, 0o644); err != nil {
		return "", fmt.Errorf("%w: write image: %v", entity.ErrPersistence, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("%w: write image: %v", entity.ErrPersistence, err)
	}
	return path, nil
}

// sanitizeFileName убирает разделители пути из меток модели.
func sanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '-'
		}
		return r
	}, name)
}

var _ port.ImageStore = (*DirImageStore)(nil)
