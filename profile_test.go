package dedihelper

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPrompter struct {
	confirm bool
	choice  string
}

func (p stubPrompter) Confirm(string, bool) (bool, error) { return p.confirm, nil }

func (p stubPrompter) Select(_ string, _ []string) (string, error) { return p.choice, nil }

func newTestManager(t *testing.T) (*Manager, *Config, afero.Fs, string) {
	t.Helper()

	cfg := &Config{
		Root:            "/srv/steamapps/common/arma3",
		ProfilesDirName: "ServerProfiles",
		WorkshopDir:     "/srv/steamapps/workshop/content/107410",
		Port:            2302,
		Platform:        "linux",
	}

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(cfg.ProfilesDir(), 0o755))
	require.NoError(t, afero.WriteFile(fs, cfg.BaseServerConfig(), []byte("hostname = \"test\";\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, cfg.BaseBasicConfig(), []byte("MaxMsgSend = 128;\n"), 0o644))

	presetPath := filepath.Join(cfg.ProfilesDir(), "MyPreset.html")
	require.NoError(t, afero.WriteFile(fs, presetPath, []byte(samplePreset), 0o644))

	return NewManagerWithFs(fs, cfg), cfg, fs, presetPath
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

func TestCreateMaterializesFullFileSet(t *testing.T) {
	m, cfg, fs, preset := newTestManager(t)
	require.NoError(t, m.Create(preset, "MyPreset"))

	dir := cfg.ProfileDir("MyPreset")
	assert.Equal(t, "hostname = \"test\";\n", readFile(t, fs, filepath.Join(dir, "server.cfg")))
	assert.Equal(t, "MaxMsgSend = 128;\n", readFile(t, fs, filepath.Join(dir, "basic.cfg")))

	params := readFile(t, fs, filepath.Join(dir, "params.txt"))
	assert.Contains(t, params, "-servermod=\"\"\n-mod=\"")
	assert.Contains(t, params, "/srv/steamapps/workshop/content/107410/450814997;")
	assert.Contains(t, params, "/srv/steamapps/workshop/content/107410/463939057;")
	assert.Contains(t, params, "/srv/steamapps/workshop/content/107410/1779063631;")

	script := readFile(t, fs, filepath.Join(dir, "start.sh"))
	assert.Contains(t, script, "arma3server_x64")
	assert.Contains(t, script, "-port=2302")
}

func TestCreateIsIdempotent(t *testing.T) {
	m, cfg, fs, preset := newTestManager(t)
	require.NoError(t, m.Create(preset, "MyPreset"))

	dir := cfg.ProfileDir("MyPreset")
	names := []string{"server.cfg", "basic.cfg", "params.txt", "start.sh"}
	first := make(map[string]string, len(names))
	for _, n := range names {
		first[n] = readFile(t, fs, filepath.Join(dir, n))
	}

	require.NoError(t, m.Create(preset, "MyPreset"))
	for _, n := range names {
		assert.Equal(t, first[n], readFile(t, fs, filepath.Join(dir, n)), n)
	}
}

func TestWriteParamsLeavesConfigsAlone(t *testing.T) {
	m, cfg, fs, preset := newTestManager(t)
	require.NoError(t, m.Create(preset, "MyPreset"))

	edited := filepath.Join(cfg.ProfileDir("MyPreset"), "server.cfg")
	require.NoError(t, afero.WriteFile(fs, edited, []byte("hostname = \"edited\";\n"), 0o644))

	require.NoError(t, m.WriteParams(preset, "MyPreset"))
	assert.Equal(t, "hostname = \"edited\";\n", readFile(t, fs, edited))
}

func TestWriteParamsEmptyPreset(t *testing.T) {
	m, cfg, fs, _ := newTestManager(t)
	empty := filepath.Join(cfg.ProfilesDir(), "Empty.html")
	require.NoError(t, afero.WriteFile(fs, empty, []byte("<html><body></body></html>"), 0o644))

	require.NoError(t, fs.MkdirAll(cfg.ProfileDir("Empty"), 0o755))
	require.NoError(t, m.WriteParams(empty, "Empty"))

	params := readFile(t, fs, filepath.Join(cfg.ProfileDir("Empty"), "params.txt"))
	assert.Equal(t, "-servermod=\"\"\n-mod=\"\"", params)
}

func TestWriteParamsMissingPresetStillWritesFile(t *testing.T) {
	m, cfg, fs, _ := newTestManager(t)
	require.NoError(t, fs.MkdirAll(cfg.ProfileDir("Gone"), 0o755))

	require.NoError(t, m.WriteParams(filepath.Join(cfg.ProfilesDir(), "Gone.html"), "Gone"))
	params := readFile(t, fs, filepath.Join(cfg.ProfileDir("Gone"), "params.txt"))
	assert.Equal(t, "-servermod=\"\"\n-mod=\"\"", params)
}

func TestWriteParamsSkipsLinksWithoutID(t *testing.T) {
	m, cfg, fs, _ := newTestManager(t)
	doc := `<table>
<tr><td data-type="DisplayName">good</td><td><a data-type="Link">http://x/?id=42</a></td></tr>
<tr><td data-type="DisplayName">bad</td><td><a data-type="Link">http://x/no-workshop-id</a></td></tr>
</table>`
	preset := filepath.Join(cfg.ProfilesDir(), "Mixed.html")
	require.NoError(t, afero.WriteFile(fs, preset, []byte(doc), 0o644))
	require.NoError(t, fs.MkdirAll(cfg.ProfileDir("Mixed"), 0o755))

	require.NoError(t, m.WriteParams(preset, "Mixed"))
	params := readFile(t, fs, filepath.Join(cfg.ProfileDir("Mixed"), "params.txt"))
	assert.Equal(t, "-servermod=\"\"\n-mod=\"/srv/steamapps/workshop/content/107410/42;\"", params)
}

func TestWriteStartScriptWindows(t *testing.T) {
	m, cfg, fs, preset := newTestManager(t)
	cfg.Platform = "windows"
	require.NoError(t, m.Create(preset, "MyPreset"))

	script := readFile(t, fs, filepath.Join(cfg.ProfileDir("MyPreset"), "start.bat"))
	assert.Contains(t, script, `"..\..\arma3server_x64.exe"`)
	assert.Contains(t, script, `-cfg="%~dp0basic.cfg"`)
	assert.Contains(t, script, `-config="%~dp0server.cfg"`)
	assert.Contains(t, script, `-par="%~dp0params.txt"`)
	assert.Contains(t, script, "-port=2302")
}

func TestReconcileAbsentDeclined(t *testing.T) {
	m, cfg, fs, preset := newTestManager(t)
	require.NoError(t, m.Reconcile(preset, stubPrompter{confirm: false}))

	exists, err := afero.DirExists(fs, cfg.ProfileDir("MyPreset"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestReconcileAbsentCreates(t *testing.T) {
	m, cfg, fs, preset := newTestManager(t)
	require.NoError(t, m.Reconcile(preset, stubPrompter{confirm: true}))

	for _, n := range []string{"server.cfg", "basic.cfg", "params.txt", "start.sh"} {
		exists, err := afero.Exists(fs, filepath.Join(cfg.ProfileDir("MyPreset"), n))
		require.NoError(t, err)
		assert.True(t, exists, n)
	}
}

func TestReconcilePresentNothing(t *testing.T) {
	m, cfg, fs, preset := newTestManager(t)
	require.NoError(t, m.Create(preset, "MyPreset"))

	edited := filepath.Join(cfg.ProfileDir("MyPreset"), "params.txt")
	require.NoError(t, afero.WriteFile(fs, edited, []byte("untouched"), 0o644))

	require.NoError(t, m.Reconcile(preset, stubPrompter{choice: choiceNothing}))
	assert.Equal(t, "untouched", readFile(t, fs, edited))
}

func TestReconcilePresentParamsOnly(t *testing.T) {
	m, cfg, fs, preset := newTestManager(t)
	require.NoError(t, m.Create(preset, "MyPreset"))

	dir := cfg.ProfileDir("MyPreset")
	require.NoError(t, afero.WriteFile(fs, filepath.Join(dir, "server.cfg"), []byte("keep me"), 0o644))
	require.NoError(t, afero.WriteFile(fs, filepath.Join(dir, "params.txt"), []byte("stale"), 0o644))

	require.NoError(t, m.Reconcile(preset, stubPrompter{choice: choiceParams}))
	assert.Equal(t, "keep me", readFile(t, fs, filepath.Join(dir, "server.cfg")))
	assert.Contains(t, readFile(t, fs, filepath.Join(dir, "params.txt")), "450814997")
}

func TestReconcilePresentEverything(t *testing.T) {
	m, cfg, fs, preset := newTestManager(t)
	require.NoError(t, m.Create(preset, "MyPreset"))

	dir := cfg.ProfileDir("MyPreset")
	require.NoError(t, afero.WriteFile(fs, filepath.Join(dir, "server.cfg"), []byte("overwrite me"), 0o644))

	require.NoError(t, m.Reconcile(preset, stubPrompter{choice: choiceEverything}))
	assert.Equal(t, "hostname = \"test\";\n", readFile(t, fs, filepath.Join(dir, "server.cfg")))
}
