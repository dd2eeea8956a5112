package access

import (
	"fmt"

	"github.com/campus-idm/portalctl/internal/provisioning"
)

// BindRole adds the service user as a member of the role. The call is made
// unconditionally; the server re-attaches members without complaint.
//
// Unlike the create steps, a binding failure is fatal by default. That
// asymmetry is historical and kept on purpose; operators who want the
// warn-and-continue behavior here opt in via tolerate_bind_errors.
func (p *Provisioner) BindRole(ctx *provisioning.Context) error {
	role := ctx.Config.Role.Name
	user := ctx.Config.User.Name

	err := ctx.Access.AddRoleMember(ctx, role, user)
	if err == nil {
		ctx.Observer.Printf("Bound role %q to user %q", role, user)
		return nil
	}

	if ctx.Config.TolerateBindErrors {
		provisioning.LogWarning(ctx.Observer, p.Name(), role,
			fmt.Sprintf("could not bind user %q to role %q: %v", user, role, err))
		return nil
	}

	return fmt.Errorf("failed to bind user %q to role %q: %w", user, role, err)
}
