// Package main is the entry point for the portalctl CLI.
//
// portalctl prepares a FreeIPA deployment for the campus portal: it creates
// the delegated-administration privilege, role and service account the portal
// authenticates with, and retrieves the service keytab.
//
// Commands: init, provision, version, completion.
//
// For detailed usage information, run:
//
//	portalctl --help
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/campus-idm/portalctl/cmd/portalctl/commands"
	"github.com/campus-idm/portalctl/internal/platform/ipa"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		// An unreachable server is distinguishable for callers that retry.
		var connErr *ipa.ConnectionError
		if errors.As(err, &connErr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
