package infra

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalStorage_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports", "nested")
	storage := NewLocalStorage(dir)

	location, err := storage.Save("archive.json", []byte(`{"ok":true}`))
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "archive.json"), location)

	data, err := os.ReadFile(location)
	assert.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(data))
}

func TestLocalStorage_SaveFailsOnUnwritableDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	assert.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	// 既存ファイルと同名のディレクトリは作れない
	storage := NewLocalStorage(file)
	_, err := storage.Save("archive.json", []byte("{}"))
	assert.Error(t, err)
}
