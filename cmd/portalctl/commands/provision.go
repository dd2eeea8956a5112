package commands

import (
	"github.com/spf13/cobra"

	"github.com/campus-idm/portalctl/cmd/portalctl/handlers"
)

// Provision returns the command that sets up the portal access objects.
//
// The command creates (or confirms) the management privilege, role and
// service account on the FreeIPA server and then retrieves the service
// keytab. Every step is idempotent, so the command can be re-run safely.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: auto-detect portalctl.yaml)
//
// Environment variables:
//
//	IPA_SERVER:   FreeIPA server host (overridden by config file and --server)
//	IPA_USER:     Bind user for the RPC session (default "admin")
//	IPA_PASSWORD: Bind user password (required)
func Provision() *cobra.Command {
	var opts handlers.ProvisionOptions

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Create the portal privilege, role, user and keytab",
		Long: `Create the portal service identity on a FreeIPA server.

This command connects to FreeIPA and ensures four things exist:

  - a privilege holding the user-management permissions the portal needs
  - a role carrying that privilege
  - a service account that is a member of the role
  - a Kerberos keytab for the service account (via ipa-getkeytab)

Objects that already exist are reported and left untouched, so running
the command twice is harmless. An existing keytab file is never
regenerated.

If no config file is specified, it looks for portalctl.yaml in the
current directory. Use 'portalctl init' to create a configuration file.

Examples:
  # Provision using portalctl.yaml in the current directory
  IPA_PASSWORD=... portalctl provision

  # Provision against an explicit server, skipping the keytab step
  IPA_PASSWORD=... portalctl provision --server ipa.example.org --no-keytab`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Provision(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file (default: portalctl.yaml)")
	cmd.Flags().StringVar(&opts.Server, "server", "", "FreeIPA server host")
	cmd.Flags().StringVar(&opts.Privilege, "privilege", "", "Name of the management privilege")
	cmd.Flags().StringVar(&opts.Role, "role", "", "Name of the management role")
	cmd.Flags().StringVar(&opts.User, "user", "", "Name of the portal service account")
	cmd.Flags().StringVar(&opts.KeytabPath, "keytab", "", "Path the keytab is written to")
	cmd.Flags().StringVar(&opts.KeytabOwner, "keytab-owner", "", "OS user that will own the keytab file")
	cmd.Flags().StringVar(&opts.CACertFile, "ca-cert", "", "CA certificate used to verify the server")
	cmd.Flags().BoolVar(&opts.NoKeytab, "no-keytab", false, "Skip keytab retrieval")
	cmd.Flags().BoolVar(&opts.TolerateBindErrors, "tolerate-bind-errors", false, "Warn instead of failing when the role membership cannot be added")
	cmd.Flags().BoolVar(&opts.Insecure, "insecure", false, "Skip TLS certificate verification")

	return cmd
}
