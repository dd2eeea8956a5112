package access

import (
	"fmt"

	"github.com/campus-idm/portalctl/internal/platform/ipa"
	"github.com/campus-idm/portalctl/internal/provisioning"
)

// EnsureRole creates the role if absent and attaches the privilege to it.
//
// The privilege attachment runs even when the role already existed: the
// server treats re-attachment as a no-op, and an existing role is not
// guaranteed to carry the privilege.
func (p *Provisioner) EnsureRole(ctx *provisioning.Context) error {
	role := ctx.Config.Role

	err := ctx.Access.AddRole(ctx, role.Name, role.Description)
	switch {
	case err == nil:
		provisioning.LogResourceCreated(ctx.Observer, p.Name(), "role", role.Name)
	case ipa.IsDuplicateEntry(err):
		provisioning.LogResourceExists(ctx.Observer, p.Name(), "role", role.Name)
	default:
		return fmt.Errorf("failed to create role %q: %w", role.Name, err)
	}

	if err := ctx.Access.AddPrivilegeToRole(ctx, role.Name, ctx.Config.Privilege.Name); err != nil {
		return fmt.Errorf("failed to attach privilege %q to role %q: %w",
			ctx.Config.Privilege.Name, role.Name, err)
	}
	ctx.Observer.Printf("Attached privilege %q to role %q", ctx.Config.Privilege.Name, role.Name)

	return nil
}
