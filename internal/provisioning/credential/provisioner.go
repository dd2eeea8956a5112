// Package credential materializes the Kerberos keytab for the portal
// service user.
//
// The keytab is created at most once: an existing file at the target path
// short-circuits retrieval, because regenerating a keytab rotates the key
// and would invalidate the copy the portal is already using.
package credential

import (
	"fmt"

	"github.com/campus-idm/portalctl/internal/provisioning"
)

// Provisioner handles keytab retrieval.
type Provisioner struct{}

// NewProvisioner creates a new credential provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return "credential"
}

// Provision implements the provisioning.Phase interface.
//
// Any failure after ipa-getkeytab has written the file (principal lookup is
// before, chown/chmod are inside Fetch) aborts the run and leaves the file
// as is; the next run then skips retrieval because the file exists.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	kt := ctx.Config.Keytab

	if !kt.Enabled {
		provisioning.LogResourceSkipped(ctx.Observer, p.Name(), kt.Path, "keytab retrieval disabled")
		return nil
	}

	if ctx.Keytab.Exists(kt.Path) {
		provisioning.LogWarning(ctx.Observer, p.Name(), kt.Path, "keytab file already exists, not regenerating")
		ctx.Observer.Printf("Keeping existing keytab at %s", kt.Path)
		return nil
	}

	principal, err := ctx.Access.UserPrincipal(ctx, ctx.Config.User.Name)
	if err != nil {
		return fmt.Errorf("failed to resolve principal for user %q: %w", ctx.Config.User.Name, err)
	}
	ctx.State.Principal = principal

	if err := ctx.Keytab.Fetch(ctx, ctx.Config.Server, principal, kt.Path, kt.Owner); err != nil {
		return err
	}

	ctx.State.KeytabWritten = true
	provisioning.LogResourceCreated(ctx.Observer, p.Name(), "keytab", kt.Path)
	return nil
}
