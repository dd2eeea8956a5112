package ipa

import "context"

// MockClient is a mock implementation of AccessManager. Each operation
// delegates to the corresponding Func field when set and succeeds otherwise.
type MockClient struct {
	AddPrivilegeFunc             func(ctx context.Context, name, description string) error
	AddPermissionToPrivilegeFunc func(ctx context.Context, privilege, permission string) error

	AddRoleFunc            func(ctx context.Context, name, description string) error
	AddPrivilegeToRoleFunc func(ctx context.Context, role, privilege string) error
	AddRoleMemberFunc      func(ctx context.Context, role, user string) error

	AddUserFunc       func(ctx context.Context, name, givenName, surname string) error
	UserPrincipalFunc func(ctx context.Context, name string) (string, error)
}

// Ensure interface compliance
var _ AccessManager = (*MockClient)(nil)

// AddPrivilege mocks privilege creation.
func (m *MockClient) AddPrivilege(ctx context.Context, name, description string) error {
	if m.AddPrivilegeFunc != nil {
		return m.AddPrivilegeFunc(ctx, name, description)
	}
	return nil
}

// AddPermissionToPrivilege mocks permission attachment.
func (m *MockClient) AddPermissionToPrivilege(ctx context.Context, privilege, permission string) error {
	if m.AddPermissionToPrivilegeFunc != nil {
		return m.AddPermissionToPrivilegeFunc(ctx, privilege, permission)
	}
	return nil
}

// AddRole mocks role creation.
func (m *MockClient) AddRole(ctx context.Context, name, description string) error {
	if m.AddRoleFunc != nil {
		return m.AddRoleFunc(ctx, name, description)
	}
	return nil
}

// AddPrivilegeToRole mocks privilege attachment.
func (m *MockClient) AddPrivilegeToRole(ctx context.Context, role, privilege string) error {
	if m.AddPrivilegeToRoleFunc != nil {
		return m.AddPrivilegeToRoleFunc(ctx, role, privilege)
	}
	return nil
}

// AddRoleMember mocks role membership binding.
func (m *MockClient) AddRoleMember(ctx context.Context, role, user string) error {
	if m.AddRoleMemberFunc != nil {
		return m.AddRoleMemberFunc(ctx, role, user)
	}
	return nil
}

// AddUser mocks user creation.
func (m *MockClient) AddUser(ctx context.Context, name, givenName, surname string) error {
	if m.AddUserFunc != nil {
		return m.AddUserFunc(ctx, name, givenName, surname)
	}
	return nil
}

// UserPrincipal mocks principal lookup.
func (m *MockClient) UserPrincipal(ctx context.Context, name string) (string, error) {
	if m.UserPrincipalFunc != nil {
		return m.UserPrincipalFunc(ctx, name)
	}
	return name + "@IPA.TEST", nil
}
