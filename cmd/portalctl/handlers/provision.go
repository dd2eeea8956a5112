// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/campus-idm/portalctl/internal/config"
	"github.com/campus-idm/portalctl/internal/platform/ipa"
	"github.com/campus-idm/portalctl/internal/platform/kerberos"
	"github.com/campus-idm/portalctl/internal/provisioning"
	"github.com/campus-idm/portalctl/internal/provisioning/access"
	"github.com/campus-idm/portalctl/internal/provisioning/credential"
	"github.com/campus-idm/portalctl/internal/util/prerequisites"
)

// ProvisionOptions carries the provision command's flag values. Zero values
// mean "keep the configured value".
type ProvisionOptions struct {
	ConfigPath         string
	Server             string
	Privilege          string
	Role               string
	User               string
	KeytabPath         string
	KeytabOwner        string
	CACertFile         string
	NoKeytab           bool
	TolerateBindErrors bool
	Insecure           bool
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfig resolves the run configuration.
	loadConfig = config.Load

	// loadTimeouts reads timeout overrides from the environment.
	loadTimeouts = config.LoadTimeouts

	// connectIPA opens the authenticated RPC session.
	connectIPA = func(cfg *config.Config, timeouts *config.Timeouts) (ipa.AccessManager, error) {
		return ipa.Connect(cfg, timeouts)
	}

	// newKeytabFetcher creates the keytab retriever.
	newKeytabFetcher = func(timeouts *config.Timeouts) provisioning.KeytabFetcher {
		return kerberos.NewRetriever(timeouts)
	}

	// checkKeytabPrereqs runs prerequisite checks for keytab retrieval.
	checkKeytabPrereqs = prerequisites.CheckForKeytab
)

// Provision sets up the portal service identity on a FreeIPA server.
//
// The workflow:
//  1. Loads the configuration (file, environment, flag overrides)
//  2. Verifies ipa-getkeytab is installed when keytab retrieval is enabled
//  3. Opens an authenticated session against the FreeIPA JSON-RPC API
//  4. Runs the access phase (privilege, role, user, role membership)
//  5. Runs the credential phase (keytab retrieval)
//
// The bind password is taken from IPA_PASSWORD. A server that cannot be
// reached surfaces as *ipa.ConnectionError so main can map it to a
// dedicated exit code.
func Provision(ctx context.Context, opts ProvisionOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	applyOverrides(cfg, opts)

	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.BindPassword == "" {
		return fmt.Errorf("IPA_PASSWORD is not set; export the password for %q before provisioning", cfg.BindUser)
	}
	if cfg.Keytab.Enabled {
		if err := checkKeytabPrereqs().Error(); err != nil {
			return err
		}
	}

	timeouts := loadTimeouts()

	log.Printf("Provisioning portal access on %s as %s", cfg.Server, cfg.BindUser)

	client, err := connectIPA(cfg, timeouts)
	if err != nil {
		return err
	}

	pctx := provisioning.NewContext(ctx, cfg, client, newKeytabFetcher(timeouts))
	phases := []provisioning.Phase{
		access.NewProvisioner(),
		credential.NewProvisioner(),
	}
	if err := provisioning.RunPhases(pctx, phases); err != nil {
		return err
	}

	fmt.Println("Done")
	return nil
}

// applyOverrides merges flag values over the loaded configuration.
func applyOverrides(cfg *config.Config, opts ProvisionOptions) {
	if opts.Server != "" {
		cfg.Server = opts.Server
	}
	if opts.Privilege != "" {
		cfg.Privilege.Name = opts.Privilege
	}
	if opts.Role != "" {
		cfg.Role.Name = opts.Role
	}
	if opts.User != "" {
		cfg.User.Name = opts.User
	}
	if opts.KeytabPath != "" {
		cfg.Keytab.Path = opts.KeytabPath
	}
	if opts.KeytabOwner != "" {
		cfg.Keytab.Owner = opts.KeytabOwner
	}
	if opts.CACertFile != "" {
		cfg.CACertFile = opts.CACertFile
	}
	if opts.NoKeytab {
		cfg.Keytab.Enabled = false
	}
	if opts.TolerateBindErrors {
		cfg.TolerateBindErrors = true
	}
	if opts.Insecure {
		cfg.InsecureTLS = true
	}
}
