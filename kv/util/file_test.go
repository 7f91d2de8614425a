package util

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir(t *testing.T) {
	dir, err := ioutil.TempDir("", "file")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "a", "b")
	assert.False(t, DirExists(path))

	created, err := EnsureDir(path)
	require.Nil(t, err)
	assert.True(t, created)
	assert.True(t, DirExists(path))

	created, err = EnsureDir(path)
	require.Nil(t, err)
	assert.False(t, created)

	file := filepath.Join(dir, "file")
	require.Nil(t, ioutil.WriteFile(file, []byte("x"), 0644))
	assert.False(t, DirExists(file))
	_, err = EnsureDir(file)
	assert.NotNil(t, err)
}
