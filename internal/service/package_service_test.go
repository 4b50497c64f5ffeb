package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/annohub/annotation-platform/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) writePackageDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(e.dir, "pkg-src")
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestListVersionsMonotonic(t *testing.T) {
	env := newTestEnv(t)
	dir := env.writePackageDir(t, map[string]string{"main.py": "print('hi')"})

	versions, err := env.packages.ListVersions("my-package")
	require.NoError(t, err)
	assert.Empty(t, versions)

	for want := 1; want <= 2; want++ {
		version, err := env.packages.Pack(env.dataset.ID, dir, "my-package")
		require.NoError(t, err)
		assert.Equal(t, want, version.Version)

		versions, err = env.packages.ListVersions("my-package")
		require.NoError(t, err)
		require.Len(t, versions, want)
		for i, v := range versions {
			assert.Equal(t, i+1, v.Version)
		}
	}
}

func TestPackMissingDirectory(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.packages.Pack(env.dataset.ID, filepath.Join(env.dir, "nope"), "ghost")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPackFileInsteadOfDirectory(t *testing.T) {
	env := newTestEnv(t)
	file := env.writeLocalFile(t, "not-a-dir.txt", []byte("x"))

	_, err := env.packages.Pack(env.dataset.ID, file, "not-a-dir")
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestPackNameTakenByOtherDataset(t *testing.T) {
	env := newTestEnv(t)
	dir := env.writePackageDir(t, map[string]string{"main.py": "pass"})

	_, err := env.packages.Pack(env.dataset.ID, dir, "taken")
	require.NoError(t, err)

	other, err := env.projects.CreateDataset(env.project.ID, "other-dataset")
	require.NoError(t, err)

	_, err = env.packages.Pack(other.ID, dir, "taken")
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	// The owning dataset can keep packing.
	version, err := env.packages.Pack(env.dataset.ID, dir, "taken")
	require.NoError(t, err)
	assert.Equal(t, 2, version.Version)
}

func TestUnpackRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	files := map[string]string{
		"main.py":          "print('hi')",
		"module/helper.py": "def helper(): pass",
	}
	dir := env.writePackageDir(t, files)

	version, err := env.packages.Pack(env.dataset.ID, dir, "round-trip")
	require.NoError(t, err)
	assert.Greater(t, version.Size, int64(0))

	dest := filepath.Join(env.dir, "unpacked")
	require.NoError(t, env.packages.Unpack("round-trip", version.Version, dest))

	for name, content := range files {
		got, err := os.ReadFile(filepath.Join(dest, filepath.FromSlash(name)))
		require.NoError(t, err)
		assert.Equal(t, content, string(got))
	}
}

func TestUnpackUnknownVersion(t *testing.T) {
	env := newTestEnv(t)
	dir := env.writePackageDir(t, map[string]string{"main.py": "pass"})

	_, err := env.packages.Pack(env.dataset.ID, dir, "one-version")
	require.NoError(t, err)

	err = env.packages.Unpack("one-version", 7, filepath.Join(env.dir, "out"))
	assert.ErrorIs(t, err, models.ErrNotFound)

	err = env.packages.Unpack("never-packed", 1, filepath.Join(env.dir, "out"))
	assert.ErrorIs(t, err, models.ErrNotFound)
}
