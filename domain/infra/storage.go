package infra

import (
	"fmt"
	"os"
	"path/filepath"
)

// Storage はアーカイブのエクスポート先
type Storage interface {
	// Save はエクスポートを書き込み、その場所を返す
	Save(name string, data []byte) (string, error)
}

type LocalStorage struct {
	dir string
}

func NewLocalStorage(dir string) *LocalStorage {
	return &LocalStorage{dir: dir}
}

func (s *LocalStorage) Save(name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}
	p := filepath.Join(s.dir, name)
	if err := os.WriteFile(p, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return p, nil
}
