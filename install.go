package dedihelper

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gookit/color"
	"github.com/spf13/afero"
)

const (
	// Matched with a glob because Linux server builds ship the
	// executable without an extension.
	serverExecutablePattern = "arma3server_x64*"

	presetFilePattern = "*.html"

	// presetMarker appears near the top of every launcher export and
	// separates real presets from stray HTML files.
	presetMarker = "Arma 3 Launcher"

	downloadTimeout = 10 * time.Second
)

// Installation inspects and prepares a dedicated server root.
type Installation struct {
	fs     afero.Fs
	cfg    *Config
	client *http.Client
}

func NewInstallation(cfg *Config) *Installation {
	return NewInstallationWithFs(afero.NewOsFs(), cfg)
}

func NewInstallationWithFs(fs afero.Fs, cfg *Config) *Installation {
	return &Installation{
		fs:     fs,
		cfg:    cfg,
		client: &http.Client{Timeout: downloadTimeout},
	}
}

// VerifyServer checks that the root actually holds a 64 bit dedicated
// server executable.
func (ins *Installation) VerifyServer() error {
	entries, err := afero.ReadDir(ins.fs, ins.cfg.Root)
	if err != nil {
		return fmt.Errorf("read server root: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ok, err := doublestar.Match(serverExecutablePattern, e.Name())
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return fmt.Errorf("no %s executable in %s", serverExecutablePattern, ins.cfg.Root)
}

// EnsureProfilesDir makes sure the profiles directory exists, offering
// to create it when missing.
func (ins *Installation) EnsureProfilesDir(p Prompter) error {
	dir := ins.cfg.ProfilesDir()

	exists, err := afero.DirExists(ins.fs, dir)
	if err != nil {
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	if exists {
		return nil
	}

	create, err := p.Confirm(fmt.Sprintf("%s does not exist. Create it now?", dir), true)
	if err != nil {
		return err
	}
	if !create {
		return fmt.Errorf("%s is required", dir)
	}
	if err := ins.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}

// EnsureBaseConfigs downloads the default base config for each template
// that is missing, so a fresh installation works out of the box.
func (ins *Installation) EnsureBaseConfigs() error {
	templates := []struct {
		path string
		url  string
	}{
		{ins.cfg.BaseServerConfig(), ins.cfg.BaseServerURL},
		{ins.cfg.BaseBasicConfig(), ins.cfg.BaseBasicURL},
	}

	for _, t := range templates {
		exists, err := afero.Exists(ins.fs, t.path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", t.path, err)
		}
		if exists {
			color.Printf("Found <green>%s</>\n", filepath.Base(t.path))
			continue
		}
		if err := ins.download(t.url, t.path); err != nil {
			return fmt.Errorf("fetch default %s: %w", filepath.Base(t.path), err)
		}
	}
	return nil
}

func (ins *Installation) download(url, dest string) error {
	res, err := ins.client.Get(url)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", res.StatusCode, url)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	if err := afero.WriteFile(ins.fs, dest, body, 0o644); err != nil {
		return err
	}
	color.Printf("Downloaded default <green>%s</>\n", filepath.Base(dest))
	return nil
}

// FindPresets returns the launcher preset exports in the profiles
// directory, identified by extension and the launcher marker string.
func (ins *Installation) FindPresets() ([]string, error) {
	dir := ins.cfg.ProfilesDir()
	entries, err := afero.ReadDir(ins.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var presets []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ok, err := doublestar.Match(presetFilePattern, strings.ToLower(e.Name()))
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		path := filepath.Join(dir, e.Name())
		export, err := ins.isLauncherExport(path)
		if err != nil {
			return nil, err
		}
		if export {
			presets = append(presets, path)
		}
	}
	return presets, nil
}

func (ins *Installation) isLauncherExport(path string) (bool, error) {
	f, err := ins.fs.Open(path)
	if err != nil {
		return false, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if strings.Contains(scanner.Text(), presetMarker) {
			return true, nil
		}
	}
	return false, scanner.Err()
}
