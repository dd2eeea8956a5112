package handlers

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/campus-idm/portalctl/internal/config"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// isInteractive reports whether stdin is a terminal.
	isInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// runWizard runs the configuration wizard.
	runWizard = config.RunWizard

	// writeConfig writes the config to a file.
	writeConfig = config.WriteFile
)

// Init creates a portalctl configuration file.
//
// Interactive terminals get the wizard; non-interactive runs and --defaults
// fall back to the built-in defaults so init stays usable in scripts.
func Init(outputPath string, useDefaults, force bool) error {
	if outputPath == "" {
		outputPath = config.DefaultConfigFile
	}
	if fileExists(outputPath) && !force {
		return fmt.Errorf("%s already exists, pass --force to overwrite it", outputPath)
	}

	var cfg *config.Config
	if useDefaults || !isInteractive() {
		cfg = config.Default()
	} else {
		printWelcome()
		result, err := runWizard()
		if err != nil {
			return err
		}
		cfg = config.BuildConfig(result)
	}

	if err := writeConfig(cfg, outputPath); err != nil {
		return err
	}

	printInitSuccess(outputPath, cfg)
	return nil
}

// printWelcome prints the welcome message.
func printWelcome() {
	fmt.Println()
	fmt.Println("portalctl - portal service identity for FreeIPA")
	fmt.Println("===============================================")
	fmt.Println()
	fmt.Println("This wizard creates a configuration with sensible defaults.")
	fmt.Println("The bind password is never written to the file.")
	fmt.Println()
}

// printInitSuccess prints the success message with summary and next steps.
func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()

	// Summary
	fmt.Println("Setup Summary")
	fmt.Println("-------------")
	fmt.Printf("  Server:          %s\n", cfg.Server)
	fmt.Printf("  Bind user:       %s\n", cfg.BindUser)
	fmt.Printf("  Service account: %s\n", cfg.User.Name)
	fmt.Printf("  Privilege:       %s\n", cfg.Privilege.Name)
	fmt.Printf("  Role:            %s\n", cfg.Role.Name)
	if cfg.Keytab.Enabled {
		fmt.Printf("  Keytab:          %s (owner %s)\n", cfg.Keytab.Path, cfg.Keytab.Owner)
	} else {
		fmt.Println("  Keytab:          disabled")
	}
	fmt.Println()

	// Next steps
	fmt.Println("Next Steps")
	fmt.Println("----------")
	fmt.Printf("  1. Review %s if needed\n", outputPath)
	fmt.Println()
	fmt.Println("  2. Export the bind password:")
	fmt.Printf("     export IPA_PASSWORD=<password for %s>\n", cfg.BindUser)
	fmt.Println()
	fmt.Println("  3. Provision the service identity:")
	fmt.Println("     portalctl provision")
	fmt.Println()
}
