package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gookit/color"
	"github.com/joho/godotenv"
	dedihelper "github.com/rekterakathom/ArmaDediHelper"
)

func main() {
	root := flag.String("root", ".", "server installation root")
	noUpdateCheck := flag.Bool("no-update-check", false, "skip the release check on startup")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(dedihelper.Version)
		return
	}

	// Optional overrides for the ADH_* settings.
	_ = godotenv.Load()

	color.Printf("Welcome to <cyan>Arma Dedi Helper</>!\nVersion: %s\n", dedihelper.Version)

	if !*noUpdateCheck {
		checkForUpdate()
	}

	absRoot, err := filepath.Abs(*root)
	if err != nil {
		exitProgram(fmt.Sprintf("cannot resolve root path: %v", err))
	}

	cfg := dedihelper.Load(absRoot)
	prompter := dedihelper.TerminalPrompter{}
	install := dedihelper.NewInstallation(cfg)

	color.Printf("\nLooking for the Arma 3 server in <grey>%s</>...\n", cfg.Root)
	if err := install.VerifyServer(); err != nil {
		exitProgram(fmt.Sprintf("could not find server files: %v", err))
	}
	color.Println("Found the 64 bit server!")

	color.Printf("\nLooking for the %s directory...\n", cfg.ProfilesDirName)
	if err := install.EnsureProfilesDir(prompter); err != nil {
		exitProgram(fmt.Sprintf("could not find profiles directory: %v", err))
	}

	color.Println("\nLooking for base configs...")
	if err := install.EnsureBaseConfigs(); err != nil {
		exitProgram(fmt.Sprintf("could not find base configuration files: %v", err))
	}

	color.Println("\nLooking for mod presets...")
	presets, err := install.FindPresets()
	if err != nil {
		exitProgram(fmt.Sprintf("could not search for presets: %v", err))
	}
	if len(presets) == 0 {
		exitProgram(fmt.Sprintf("no presets found; export one from the Arma 3 Launcher into %s", cfg.ProfilesDir()))
	}

	selected, err := selectPreset(prompter, presets)
	if err != nil {
		exitProgram(fmt.Sprintf("preset selection failed: %v", err))
	}
	color.Printf("Selected preset: <cyan>%s</>\n", selected)

	mgr := dedihelper.NewManager(cfg)
	if err := mgr.Reconcile(selected, prompter); err != nil {
		exitProgram(fmt.Sprintf("failed to create server files: %v", err))
	}

	printServerInstructions(cfg)
	exitProgram("setup complete")
}

func selectPreset(p dedihelper.Prompter, presets []string) (string, error) {
	if len(presets) == 1 {
		return presets[0], nil
	}

	names := make([]string, len(presets))
	byName := make(map[string]string, len(presets))
	for i, preset := range presets {
		name := filepath.Base(preset)
		names[i] = name
		byName[name] = preset
	}

	name, err := p.Select("Which preset do you want to set up?", names)
	if err != nil {
		return "", err
	}
	return byName[name], nil
}

func checkForUpdate() {
	client := &http.Client{Timeout: 5 * time.Second}
	tag, err := dedihelper.LatestRelease(client, dedihelper.ReleasesURL)
	if err != nil {
		// Offline or rate limited, not worth bothering the user.
		return
	}
	if dedihelper.UpdateAvailable(dedihelper.Version, tag) {
		color.Printf("<yellow>A newer release (%s) is available on GitHub.</>\n", tag)
	}
}

func printServerInstructions(cfg *dedihelper.Config) {
	color.Println("\nSetup finished!")
	color.Printf("You now have the minimum required server configuration in <grey>%s</>\n",
		filepath.Join(cfg.ProfilesDir(), "<name-of-preset>"))
	color.Println("\nIt is highly recommended that you now manually tweak the configs and the startup script to your needs.")
	color.Printf("The server logs (.rpt files) end up in <grey>%s</>\n",
		filepath.Join(cfg.ProfilesDir(), "<name-of-preset>", "Profiles"))
	color.Println("\nTo start the server, run the start script in the preset's directory.")
}

// exitProgram ends the run the way a finished interactive session
// should: a reason on screen and a zero status.
func exitProgram(reason string) {
	color.Printf("\nExiting... Reason: %s\n", reason)
	os.Exit(0)
}
