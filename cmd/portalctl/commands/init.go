package commands

import (
	"github.com/spf13/cobra"

	"github.com/campus-idm/portalctl/cmd/portalctl/handlers"
	"github.com/campus-idm/portalctl/internal/config"
)

// Init returns the command for creating a portalctl configuration file.
//
// In an interactive terminal the command walks the user through the handful
// of choices a portal setup needs. With --defaults, or when stdin is not a
// terminal, it writes a configuration based purely on the built-in defaults.
//
// Flags:
//
//	--output, -o: Path to output file (default "portalctl.yaml")
//	--defaults, -d: Skip the wizard and write the default configuration
//	--force, -f: Overwrite an existing file
func Init() *cobra.Command {
	var (
		outputPath  string
		useDefaults bool
		force       bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file",
		Long: `Create a portalctl configuration file.

This command asks about:

  - the FreeIPA server and the bind user for the RPC session
  - the name of the portal service account
  - whether to retrieve a keytab, and where to put it

Privilege and role names keep their defaults; edit the generated
file to change them. The bind password is never stored in the file,
it is read from IPA_PASSWORD at provisioning time.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Init(outputPath, useDefaults, force)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultConfigFile, "Output file path")
	cmd.Flags().BoolVarP(&useDefaults, "defaults", "d", false, "Skip the wizard and write the default configuration")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}
