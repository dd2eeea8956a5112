// Package access ensures the portal's identity-management entities exist:
// the privilege with its permission bundle, the role, the service user and
// the role membership binding them together.
//
// Every create call has create-if-absent semantics: a DuplicateEntry answer
// from the server is reported as "already exists" and the workflow proceeds.
package access

import (
	"github.com/campus-idm/portalctl/internal/provisioning"
)

// Provisioner handles access provisioning (privilege, role, user, binding).
type Provisioner struct{}

// NewProvisioner creates a new access provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return "access"
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	// 1. Privilege with permission bundle
	if err := p.EnsurePrivilege(ctx); err != nil {
		return err
	}

	// 2. Role holding the privilege
	if err := p.EnsureRole(ctx); err != nil {
		return err
	}

	// 3. Service user
	if err := p.EnsureUser(ctx); err != nil {
		return err
	}

	// 4. Role membership
	return p.BindRole(ctx)
}
