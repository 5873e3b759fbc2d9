package document

import (
	"context"
	"os"
	"path/filepath"
)

// ローカルディスクのファイルストア。
type LocalFileStore struct {
	dir string
}

func NewLocalFileStore(dir string) (*LocalFileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalFileStore{dir: dir}, nil
}

func (s *LocalFileStore) Store(ctx context.Context, path string, data []byte) error {
	return os.WriteFile(filepath.Join(s.dir, filepath.Base(path)), data, 0o644)
}
