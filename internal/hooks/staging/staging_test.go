package staging

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/assetstage/internal/config"
	stageerrors "git.home.luguber.info/inful/assetstage/internal/errors"
	"git.home.luguber.info/inful/assetstage/internal/hooks"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestStage_CopiesAssetsIntoDist(t *testing.T) {
	base := t.TempDir()
	site := t.TempDir()
	writeFile(t, filepath.Join(base, "pkg", "assets", "app.js"), "console.log(1)")

	result, err := Stage(Options{BaseDir: base, SiteDir: site})
	require.NoError(t, err)

	assert.Equal(t, "console.log(1)", readFile(t, filepath.Join(site, "dist", "assets", "app.js")))
	assert.Equal(t, 1, result.Files)
	assert.False(t, result.Skipped)
}

func TestStage_OverwriteWins(t *testing.T) {
	base := t.TempDir()
	site := t.TempDir()
	writeFile(t, filepath.Join(base, "pkg", "index.html"), "A")
	writeFile(t, filepath.Join(site, "dist", "index.html"), "B")

	_, err := Stage(Options{BaseDir: base, SiteDir: site})
	require.NoError(t, err)

	assert.Equal(t, "A", readFile(t, filepath.Join(site, "dist", "index.html")))
}

func TestStage_MergePreservesUnrelatedFiles(t *testing.T) {
	base := t.TempDir()
	site := t.TempDir()
	writeFile(t, filepath.Join(base, "pkg", "new.js"), "new")
	writeFile(t, filepath.Join(site, "dist", "old.js"), "old")

	_, err := Stage(Options{BaseDir: base, SiteDir: site})
	require.NoError(t, err)

	assert.Equal(t, "old", readFile(t, filepath.Join(site, "dist", "old.js")))
}

func TestStage_Idempotent(t *testing.T) {
	base := t.TempDir()
	site := t.TempDir()
	writeFile(t, filepath.Join(base, "pkg", "a.txt"), "x")

	first, err := Stage(Options{BaseDir: base, SiteDir: site})
	require.NoError(t, err)
	second, err := Stage(Options{BaseDir: base, SiteDir: site})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestStage_MissingSourceFails(t *testing.T) {
	base := t.TempDir()
	site := t.TempDir()

	_, err := Stage(Options{BaseDir: base, SiteDir: site})
	require.Error(t, err)
	assert.True(t, stageerrors.IsCategory(err, stageerrors.CategoryFileSystem))
	assert.ErrorIs(t, err, os.ErrNotExist)

	// Site dir must be untouched: no dist created from a missing source.
	_, statErr := os.Stat(filepath.Join(site, "dist"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestStage_MissingSourceSkipPolicy(t *testing.T) {
	base := t.TempDir()
	site := t.TempDir()

	result, err := Stage(Options{
		BaseDir:         base,
		SiteDir:         site,
		OnMissingSource: config.MissingSourceSkip,
	})
	require.NoError(t, err)
	assert.True(t, result.Skipped)

	_, statErr := os.Stat(filepath.Join(site, "dist"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestStage_AbsoluteSourceIgnoresBaseDir(t *testing.T) {
	src := t.TempDir()
	site := t.TempDir()
	writeFile(t, filepath.Join(src, "a.txt"), "abs")

	result, err := Stage(Options{BaseDir: "/elsewhere", Source: src, SiteDir: site})
	require.NoError(t, err)
	assert.Equal(t, src, result.Source)
	assert.Equal(t, "abs", readFile(t, filepath.Join(site, "dist", "a.txt")))
}

func TestStage_CustomDestSubdir(t *testing.T) {
	base := t.TempDir()
	site := t.TempDir()
	writeFile(t, filepath.Join(base, "pkg", "a.txt"), "x")

	_, err := Stage(Options{BaseDir: base, SiteDir: site, DestSubdir: "static"})
	require.NoError(t, err)
	assert.Equal(t, "x", readFile(t, filepath.Join(site, "static", "a.txt")))
}

func TestHook_Metadata(t *testing.T) {
	h := NewHook(&config.Config{SiteDir: "./site"})

	md := h.Metadata()
	assert.Equal(t, HookName, md.Name)
	assert.Equal(t, hooks.PhasePostBuild, md.Phase)
	require.NoError(t, md.Validate())
}

func TestHook_ValidateSettings(t *testing.T) {
	h := NewHook(&config.Config{SiteDir: "./site"})

	assert.NoError(t, h.Validate(map[string]any{"source": "pkg", "dest_subdir": "dist"}))
	assert.Error(t, h.Validate(map[string]any{"retries": 3}))
}

func TestHook_ExecuteStagesAssets(t *testing.T) {
	base := t.TempDir()
	site := t.TempDir()
	writeFile(t, filepath.Join(base, "pkg", "index.html"), "A")

	cfg := &config.Config{BaseDir: base, SiteDir: site}
	cfg.ApplyDefaults()
	h := NewHook(cfg)

	hctx := hooks.NewContext("run-1", base, site, nil, nil)
	require.NoError(t, h.Execute(context.Background(), hctx))

	assert.Equal(t, "A", readFile(t, filepath.Join(site, "dist", "index.html")))
}

func TestHook_ExecutePropagatesFailure(t *testing.T) {
	base := t.TempDir()
	site := t.TempDir()

	cfg := &config.Config{BaseDir: base, SiteDir: site}
	cfg.ApplyDefaults()
	h := NewHook(cfg)

	hctx := hooks.NewContext("run-2", base, site, nil, nil)
	err := h.Execute(context.Background(), hctx)
	require.Error(t, err)

	var hookErr *hooks.HookError
	require.ErrorAs(t, err, &hookErr)
	assert.Equal(t, HookName, hookErr.HookName)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestHook_ExecuteRespectsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := NewHook(&config.Config{SiteDir: t.TempDir()})
	err := h.Execute(ctx, hooks.NewContext("run-3", "", "", nil, nil))
	assert.ErrorIs(t, err, context.Canceled)
}
