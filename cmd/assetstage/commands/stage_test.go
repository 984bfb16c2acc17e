package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/assetstage/internal/config"
	stageerrors "git.home.luguber.info/inful/assetstage/internal/errors"
)

func writeAsset(t *testing.T, base, rel, content string) {
	t.Helper()
	path := filepath.Join(base, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func rootCLI(t *testing.T) *CLI {
	t.Helper()
	// Point the config flag at a path that does not exist so commands fall
	// back to flag-only configuration.
	return &CLI{Config: filepath.Join(t.TempDir(), "assetstage.yaml")}
}

func TestStageCmd_RunWithFlagsOnly(t *testing.T) {
	base := t.TempDir()
	site := t.TempDir()
	writeAsset(t, base, "pkg/assets/app.js", "console.log(1)")

	cmd := &StageCmd{SiteDir: site, BaseDir: base, NoHistory: true}
	require.NoError(t, cmd.Run(&Global{}, rootCLI(t)))

	data, err := os.ReadFile(filepath.Join(site, "dist", "assets", "app.js"))
	require.NoError(t, err)
	assert.Equal(t, "console.log(1)", string(data))
}

func TestStageCmd_RunWithConfigFile(t *testing.T) {
	base := t.TempDir()
	site := t.TempDir()
	writeAsset(t, base, "pkg/index.html", "A")
	writeAsset(t, site, "dist/index.html", "B")

	configPath := filepath.Join(t.TempDir(), "assetstage.yaml")
	content := "site_dir: " + site + "\nbase_dir: " + base + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	cmd := &StageCmd{NoHistory: true}
	require.NoError(t, cmd.Run(&Global{}, &CLI{Config: configPath}))

	data, err := os.ReadFile(filepath.Join(site, "dist", "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "A", string(data))
}

func TestStageCmd_MissingSourceFails(t *testing.T) {
	cmd := &StageCmd{SiteDir: t.TempDir(), BaseDir: t.TempDir(), NoHistory: true}

	err := cmd.Run(&Global{}, rootCLI(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStageCmd_MissingSourceSkips(t *testing.T) {
	cmd := &StageCmd{
		SiteDir:         t.TempDir(),
		BaseDir:         t.TempDir(),
		OnMissingSource: "skip",
		NoHistory:       true,
	}
	require.NoError(t, cmd.Run(&Global{}, rootCLI(t)))
}

func TestStageCmd_InvalidPolicyRejected(t *testing.T) {
	cmd := &StageCmd{
		SiteDir:         t.TempDir(),
		BaseDir:         t.TempDir(),
		OnMissingSource: "retry",
		NoHistory:       true,
	}

	err := cmd.Run(&Global{}, rootCLI(t))
	require.Error(t, err)
	assert.True(t, stageerrors.IsCategory(err, stageerrors.CategoryValidation))
}

func TestStageCmd_RecordsHistory(t *testing.T) {
	base := t.TempDir()
	site := t.TempDir()
	writeAsset(t, base, "pkg/a.txt", "x")

	dbPath := filepath.Join(t.TempDir(), "runs.db")
	configPath := filepath.Join(t.TempDir(), "assetstage.yaml")
	content := "site_dir: " + site + "\nbase_dir: " + base + "\nhistory:\n  path: " + dbPath + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	cmd := &StageCmd{}
	require.NoError(t, cmd.Run(&Global{}, &CLI{Config: configPath}))

	_, err := os.Stat(dbPath)
	assert.NoError(t, err, "expected history database to be created")
}

func TestInitCmd_CreatesConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "assetstage.yaml")
	root := &CLI{Config: configPath}

	require.NoError(t, (&InitCmd{}).Run(&Global{}, root))

	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "pkg", cfg.Source)

	// Refuses to overwrite without --force.
	require.Error(t, (&InitCmd{}).Run(&Global{}, root))
	require.NoError(t, (&InitCmd{Force: true}).Run(&Global{}, root))
}

func TestHistoryCmd_RequiresConfiguredStore(t *testing.T) {
	site := t.TempDir()
	configPath := filepath.Join(t.TempDir(), "assetstage.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("site_dir: "+site+"\n"), 0o644))

	err := (&HistoryCmd{Limit: 5}).Run(&Global{}, &CLI{Config: configPath})
	require.Error(t, err)
	assert.True(t, stageerrors.IsCategory(err, stageerrors.CategoryConfig))
}

func TestHistoryCmd_EmptyStoreIsNotAnError(t *testing.T) {
	site := t.TempDir()
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	configPath := filepath.Join(t.TempDir(), "assetstage.yaml")
	content := "site_dir: " + site + "\nhistory:\n  path: " + dbPath + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	require.NoError(t, (&HistoryCmd{Limit: 5}).Run(&Global{}, &CLI{Config: configPath}))
}

func TestResolveConfig_FlagFallbackNeedsSiteDir(t *testing.T) {
	root := rootCLI(t)

	_, err := ResolveConfig(root, "")
	require.Error(t, err)
	assert.True(t, stageerrors.IsCategory(err, stageerrors.CategoryConfig))

	cfg, err := ResolveConfig(root, "/srv/site")
	require.NoError(t, err)
	assert.Equal(t, "/srv/site", cfg.SiteDir)
	assert.Equal(t, "pkg", cfg.Source)
}
