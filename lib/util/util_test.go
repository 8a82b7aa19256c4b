package util

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCloser struct {
	name  string
	order *[]string
	err   error
}

func (c *recordingCloser) Close() error {
	*c.order = append(*c.order, c.name)
	return c.err
}

func TestCloseAllReverseOrder(t *testing.T) {
	var order []string
	RegisterCloser(&recordingCloser{name: "first", order: &order})
	RegisterCloser(&recordingCloser{name: "second", order: &order, err: errors.New("boom")})
	RegisterCloser(nil)

	failed := CloseAll()
	assert.Equal(t, 1, failed)
	assert.Equal(t, []string{"second", "first"}, order)

	// list is cleared
	assert.Equal(t, 0, CloseAll())
	assert.Len(t, order, 2)
}

func TestCheckFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	assert.True(t, CheckFileExists(path))
	assert.False(t, CheckFileExists(dir), "directories are not files")
	assert.False(t, CheckFileExists(filepath.Join(dir, "missing")))
	assert.False(t, CheckFileExists(""))
}

func TestUserHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	assert.Equal(t, home, UserHome())
}
