// Package ipa provides a wrapper around the FreeIPA JSON-RPC API.
//
// The wrapper exposes only the handful of idempotent operations the
// provisioning workflow needs. All entity semantics (privileges, roles,
// permission checking) stay on the server; this package just issues the
// calls and classifies the errors that come back.
package ipa

import "context"

// PrivilegeManager defines the interface for managing privileges.
type PrivilegeManager interface {
	// AddPrivilege creates a privilege. Returns an error satisfying
	// IsDuplicateEntry if a privilege with that name already exists.
	AddPrivilege(ctx context.Context, name, description string) error

	// AddPermissionToPrivilege attaches a single permission to a privilege.
	// Unknown permission names surface as an error; the caller decides
	// whether that is fatal.
	AddPermissionToPrivilege(ctx context.Context, privilege, permission string) error
}

// RoleManager defines the interface for managing roles and their members.
type RoleManager interface {
	// AddRole creates a role. Duplicate names surface via IsDuplicateEntry.
	AddRole(ctx context.Context, name, description string) error

	// AddPrivilegeToRole attaches a privilege to a role. Safe to repeat;
	// the server treats re-attachment as a no-op.
	AddPrivilegeToRole(ctx context.Context, role, privilege string) error

	// AddRoleMember adds a user as a member of a role. Safe to repeat.
	AddRoleMember(ctx context.Context, role, user string) error
}

// UserManager defines the interface for managing service users.
type UserManager interface {
	// AddUser creates a user account. Duplicate names surface via
	// IsDuplicateEntry.
	AddUser(ctx context.Context, name, givenName, surname string) error

	// UserPrincipal returns the first Kerberos principal name recorded for
	// the user. The principal is assigned server-side on user creation.
	UserPrincipal(ctx context.Context, name string) (string, error)
}

// AccessManager combines all identity-management interfaces consumed by the
// provisioning workflow.
type AccessManager interface {
	PrivilegeManager
	RoleManager
	UserManager
}
