package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowedImage(t *testing.T) {
	for _, name := range []string{"a.jpg", "b.JPEG", "c.png", "d.gif", "e.webp"} {
		assert.True(t, AllowedImage(name), name)
	}
	for _, name := range []string{"a.exe", "noext", "x.jpg.sh", ".png.txt"} {
		assert.False(t, AllowedImage(name), name)
	}
}

func TestLocalSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store := NewLocal(dir, "http://cdn.example.com/")

	url, err := store.Save(context.Background(), "Photo.PNG", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://cdn.example.com/uploads/"), url)
	assert.True(t, strings.HasSuffix(url, ".png"))

	name := strings.TrimPrefix(url, "http://cdn.example.com/uploads/")
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	other, err := store.Save(context.Background(), "Photo.PNG", strings.NewReader("again"))
	require.NoError(t, err)
	assert.NotEqual(t, url, other)
}

func TestLocalSaveRejectsUnsupported(t *testing.T) {
	dir := t.TempDir()
	store := NewLocal(dir, "http://localhost:5000")

	_, err := store.Save(context.Background(), "script.sh", strings.NewReader("#!/bin/sh"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
