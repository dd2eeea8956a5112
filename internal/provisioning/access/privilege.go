package access

import (
	"fmt"

	"github.com/campus-idm/portalctl/internal/platform/ipa"
	"github.com/campus-idm/portalctl/internal/provisioning"
)

// EnsurePrivilege creates the privilege if absent and attaches the
// configured permissions to it.
//
// Permissions are attached one at a time so that a name the server rejects
// only costs that single attachment; the remaining permissions are still
// attempted. There is no rollback.
func (p *Provisioner) EnsurePrivilege(ctx *provisioning.Context) error {
	priv := ctx.Config.Privilege

	err := ctx.Access.AddPrivilege(ctx, priv.Name, priv.Description)
	switch {
	case err == nil:
		provisioning.LogResourceCreated(ctx.Observer, p.Name(), "privilege", priv.Name)
	case ipa.IsDuplicateEntry(err):
		provisioning.LogResourceExists(ctx.Observer, p.Name(), "privilege", priv.Name)
	default:
		return fmt.Errorf("failed to create privilege %q: %w", priv.Name, err)
	}

	for _, permission := range priv.Permissions {
		if err := ctx.Access.AddPermissionToPrivilege(ctx, priv.Name, permission); err != nil {
			provisioning.LogWarning(ctx.Observer, p.Name(), priv.Name,
				fmt.Sprintf("could not attach permission %q: %v", permission, err))
			continue
		}
		ctx.Observer.Printf("Attached permission %q to privilege %q", permission, priv.Name)
	}

	return nil
}
