package dedihelper

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gookit/color"
	"github.com/spf13/afero"
)

// Artifact names inside a preset's profile directory.
const (
	serverConfigName   = "server.cfg"
	basicConfigName    = "basic.cfg"
	paramsFileName     = "params.txt"
	startScriptWindows = "start.bat"
	startScriptUnix    = "start.sh"
)

// Choices offered for an already materialized profile.
const (
	choiceNothing    = "Nothing, don't touch the files"
	choiceParams     = "Regenerate the mod parameter file"
	choiceEverything = "Regenerate everything (removes any modifications you've made)"
)

// Manager materializes per-preset profile directories. It never
// deletes a profile; the only destructive operation is overwriting
// files the user explicitly asked to regenerate.
type Manager struct {
	fs  afero.Fs
	cfg *Config
}

func NewManager(cfg *Config) *Manager {
	return NewManagerWithFs(afero.NewOsFs(), cfg)
}

func NewManagerWithFs(fs afero.Fs, cfg *Config) *Manager {
	return &Manager{fs: fs, cfg: cfg}
}

// Reconcile brings the profile for presetPath to the state the user
// asks for. A missing directory is offered for creation; an existing
// one for selective or full regeneration. Repeating the same answer
// yields the same files.
func (m *Manager) Reconcile(presetPath string, p Prompter) error {
	name := PresetName(presetPath)
	dir := m.cfg.ProfileDir(name)

	exists, err := afero.DirExists(m.fs, dir)
	if err != nil {
		return fmt.Errorf("stat %s: %w", dir, err)
	}

	if !exists {
		create, err := p.Confirm(fmt.Sprintf("No configuration for %s yet. Create it now?", name), true)
		if err != nil {
			return err
		}
		if !create {
			color.Printf("Leaving <cyan>%s</> untouched\n", name)
			return nil
		}
		return m.Create(presetPath, name)
	}

	choice, err := p.Select(
		fmt.Sprintf("Found an existing configuration for %s. What do you want to do?", name),
		[]string{choiceNothing, choiceParams, choiceEverything},
	)
	if err != nil {
		return err
	}

	switch choice {
	case choiceParams:
		color.Printf("Rewriting <cyan>%s</>\n", paramsFileName)
		return m.WriteParams(presetPath, name)
	case choiceEverything:
		color.Println("Rewriting everything")
		return m.Create(presetPath, name)
	default:
		color.Printf("Leaving <cyan>%s</> untouched\n", name)
		return nil
	}
}

// Create materializes the full file set for a preset: the profile
// directory, both config copies, the startup script and params.txt.
// Existing files are overwritten; nothing is rolled back on failure.
func (m *Manager) Create(presetPath, name string) error {
	dir := m.cfg.ProfileDir(name)
	if err := m.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create profile dir: %w", err)
	}

	if err := m.copyFile(m.cfg.BaseServerConfig(), filepath.Join(dir, serverConfigName)); err != nil {
		return err
	}
	if err := m.copyFile(m.cfg.BaseBasicConfig(), filepath.Join(dir, basicConfigName)); err != nil {
		return err
	}
	if err := m.writeStartScript(name); err != nil {
		return err
	}
	return m.WriteParams(presetPath, name)
}

// WriteParams regenerates only params.txt from the preset's mod list.
// An unreadable preset is reported and treated as an empty mod list;
// the file is written either way so the startup script stays valid.
func (m *Manager) WriteParams(presetPath, name string) error {
	var mods []Mod

	f, err := m.fs.Open(presetPath)
	if err != nil {
		color.Printf("<yellow>Could not read preset %s: %v</>\n", presetPath, err)
	} else {
		mods, err = ParseMods(f)
		f.Close()
		if err != nil {
			color.Printf("<yellow>Could not parse preset %s: %v</>\n", presetPath, err)
			mods = nil
		}
	}

	if len(mods) > 0 {
		color.Printf("\nFound the following mods in <cyan>%s</>:\n", name)
	}

	var modparam strings.Builder
	for _, mod := range mods {
		color.Printf("%s - <grey>%s</>\n", mod.Name, mod.Link)
		id, ok := ModID(mod.Link)
		if !ok || id == "" {
			color.Printf("<yellow>Skipping %s: no workshop ID in link %q</>\n", mod.Name, mod.Link)
			continue
		}
		modparam.WriteString(m.cfg.WorkshopPath(id))
		modparam.WriteString(";")
	}

	content := fmt.Sprintf("-servermod=\"\"\n-mod=\"%s\"", modparam.String())
	dest := filepath.Join(m.cfg.ProfileDir(name), paramsFileName)
	if err := afero.WriteFile(m.fs, dest, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return nil
}

func (m *Manager) copyFile(src, dest string) error {
	data, err := afero.ReadFile(m.fs, src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}
	if err := afero.WriteFile(m.fs, dest, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return nil
}

// writeStartScript emits a launcher for the profile. Windows gets the
// batch script the game's community documents; everything else a plain
// sh script against the extensionless Linux server binary.
func (m *Manager) writeStartScript(name string) error {
	dir := m.cfg.ProfileDir(name)

	if m.cfg.Platform == "windows" {
		script := fmt.Sprintf(`start "" "..\..\arma3server_x64.exe"`+
			` -cfg="%%~dp0basic.cfg"`+
			` -config="%%~dp0server.cfg"`+
			` -profiles="%%~dp0Profiles"`+
			` -port=%d`+
			` -par="%%~dp0params.txt"`, m.cfg.Port)
		if err := afero.WriteFile(m.fs, filepath.Join(dir, startScriptWindows), []byte(script), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", startScriptWindows, err)
		}
		return nil
	}

	script := fmt.Sprintf("#!/bin/sh\ncd \"$(dirname \"$0\")\"\n"+
		"\"../../arma3server_x64\" -cfg=basic.cfg -config=server.cfg -profiles=Profiles -port=%d -par=params.txt\n", m.cfg.Port)
	if err := afero.WriteFile(m.fs, filepath.Join(dir, startScriptUnix), []byte(script), 0o755); err != nil {
		return fmt.Errorf("write %s: %w", startScriptUnix, err)
	}
	return nil
}
