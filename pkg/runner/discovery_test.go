package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/ifdeflens/pkg/filetype"
	"github.com/yaklabco/ifdeflens/pkg/runner"
)

func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

func TestDiscover_SingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"App.vue": ""})

	files, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{"App.vue"},
		WorkingDir: dir,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "App.vue")}, files)
}

func TestDiscover_Directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"App.vue":                     "",
		"main.js":                     "",
		"pages/index/index.nvue":      "",
		"static/theme.scss":           "",
		"README.md":                   "",
		"go.mod":                      "",
		".hidden/skip.vue":            "",
		"pages/.draft.vue":            "",
		"node_modules/pkg/index.js":   "",
		"unpackage/dist/app.js":       "",
		"components/nav/nav-bar.uvue": "",
	})

	files, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir:   dir,
		ExcludeGlobs: []string{"node_modules/**", "unpackage/**"},
	})
	require.NoError(t, err)

	want := []string{
		filepath.Join(dir, "App.vue"),
		filepath.Join(dir, "components/nav/nav-bar.uvue"),
		filepath.Join(dir, "main.js"),
		filepath.Join(dir, "pages/index/index.nvue"),
		filepath.Join(dir, "static/theme.scss"),
	}
	assert.Equal(t, want, files)
}

func TestDiscover_ExcludeBaseName(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"lib/vendor.min.js": "",
		"lib/app.js":        "",
	})

	files, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir:   dir,
		ExcludeGlobs: []string{"*.min.js"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "lib/app.js")}, files)
}

func TestDiscover_ResolverOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"page.wxml": "",
		"main.js":   "",
	})

	resolver, err := filetype.NewResolver(filetype.Options{
		Overrides: map[string][]string{
			"wxml": {"markup"},
			".js":  {},
		},
	})
	require.NoError(t, err)

	files, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: dir,
		Resolver:   resolver,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "page.wxml")}, files)
}

func TestDiscover_Deduplicates(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"src/a.ts": "", "src/b.css": ""})

	files, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{"src", "src/a.ts", "."},
		WorkingDir: dir,
	})
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestDiscover_MissingPath(t *testing.T) {
	t.Parallel()

	_, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{"nope"},
		WorkingDir: t.TempDir(),
	})
	require.Error(t, err)
}

func TestDiscover_Symlinks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	outside := t.TempDir()
	writeTree(t, outside, map[string]string{"shared/util.ts": ""})
	writeTree(t, dir, map[string]string{"main.ts": ""})
	require.NoError(t, os.Symlink(filepath.Join(outside, "shared"), filepath.Join(dir, "shared")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "missing.ts"), filepath.Join(dir, "broken.ts")))

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "main.ts")}, files)

	files, err = runner.Discover(context.Background(), runner.Options{WorkingDir: dir, FollowSymlinks: true})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "main.ts"),
		filepath.Join(outside, "shared/util.ts"),
	}, files)
}

func TestDiscover_SymlinkLoop(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"pages/index.vue": ""})
	require.NoError(t, os.Symlink(dir, filepath.Join(dir, "pages", "loop")))
	require.NoError(t, os.Symlink(".", filepath.Join(dir, "self")))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	files, err := runner.Discover(ctx, runner.Options{WorkingDir: dir, FollowSymlinks: true})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "pages", "index.vue")}, files)
}

func TestDiscover_OverlappingRootsWalkedOnce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"src/a.ts": "", "b.ts": ""})

	files, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{".", "src"},
		WorkingDir: dir,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "b.ts"), filepath.Join(dir, "src", "a.ts")}, files)
}

func TestDiscover_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Discover(ctx, runner.Options{WorkingDir: t.TempDir()})
	require.ErrorIs(t, err, context.Canceled)
}
