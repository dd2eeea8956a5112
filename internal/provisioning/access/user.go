package access

import (
	"fmt"

	"github.com/campus-idm/portalctl/internal/config"
	"github.com/campus-idm/portalctl/internal/platform/ipa"
	"github.com/campus-idm/portalctl/internal/provisioning"
)

// EnsureUser creates the service user if absent. When the account already
// exists the fact is recorded in State.UserExisted; no caller branches on it
// today, but the signal is part of the ensurer contract.
func (p *Provisioner) EnsureUser(ctx *provisioning.Context) error {
	name := ctx.Config.User.Name

	err := ctx.Access.AddUser(ctx, name, config.UserGivenName, config.UserSurname)
	switch {
	case err == nil:
		provisioning.LogResourceCreated(ctx.Observer, p.Name(), "user", name)
	case ipa.IsDuplicateEntry(err):
		ctx.State.UserExisted = true
		provisioning.LogResourceExists(ctx.Observer, p.Name(), "user", name)
	default:
		return fmt.Errorf("failed to create user %q: %w", name, err)
	}

	return nil
}
