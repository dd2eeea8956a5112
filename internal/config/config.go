// Package config defines the portalctl configuration model.
//
// Configuration is assembled from three layers, lowest precedence first:
// built-in defaults, an optional YAML file, and command-line flags. The
// merged result is validated once before any RPC is issued.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Default resource names for the portal service identity. These match the
// values the portal deployment guide assumes, so a bare `portalctl provision`
// produces a working setup.
const (
	DefaultPrivilegeName = "Portal management privilege"
	DefaultPrivilegeDesc = "Portal management privilege"
	DefaultRoleName      = "Portal management"
	DefaultRoleDesc      = "Portal management role"
	DefaultUserName      = "portal"
	DefaultKeytabPath    = "/etc/ipa/portal.keytab"
	DefaultKeytabOwner   = "apache"
	DefaultCACertFile    = "/etc/ipa/ca.crt"
	DefaultBindUser      = "admin"
)

// DefaultConfigFile is the config file looked up in the working directory
// when no --config flag is given.
const DefaultConfigFile = "portalctl.yaml"

// The service user is created with fixed name attributes; FreeIPA requires
// givenname and sn on user_add and nothing downstream reads them.
const (
	UserGivenName = "Portal"
	UserSurname   = "User"
)

// DefaultPermissions is the permission bundle attached to the portal
// privilege. Each permission is attached independently; one unknown name
// must not block the rest.
func DefaultPermissions() []string {
	return []string{
		"System: Add Users",
		"System: Read Users",
		"System: Modify Users",
		"System: Change User password",
		"System: Unlock User",
	}
}

// PrivilegeConfig describes the privilege to ensure.
type PrivilegeConfig struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Permissions []string `yaml:"permissions"`
}

// RoleConfig describes the role to ensure.
type RoleConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// UserConfig describes the service user to ensure.
type UserConfig struct {
	Name string `yaml:"name"`
}

// KeytabConfig describes the optional keytab retrieval step.
type KeytabConfig struct {
	// Enabled controls whether the keytab step runs at all.
	Enabled bool `yaml:"enabled"`

	// Path is where ipa-getkeytab writes the keytab. If the file already
	// exists the step is skipped without touching it.
	Path string `yaml:"path"`

	// Owner is the OS user (and its primary group) that ends up owning
	// the keytab file.
	Owner string `yaml:"owner"`
}

// Config is the fully merged portalctl configuration.
type Config struct {
	// Server is the FreeIPA server host name.
	Server string `yaml:"server"`

	// BindUser and BindPassword authenticate the RPC session. The password
	// is never read from the config file, only from IPA_PASSWORD.
	BindUser     string `yaml:"bind_user"`
	BindPassword string `yaml:"-"`

	// CACertFile is the PEM bundle used to verify the server certificate.
	// When the file is absent the system root pool is used.
	CACertFile string `yaml:"ca_cert_file"`

	// InsecureTLS disables server certificate verification.
	InsecureTLS bool `yaml:"insecure_tls"`

	Privilege PrivilegeConfig `yaml:"privilege"`
	Role      RoleConfig      `yaml:"role"`
	User      UserConfig      `yaml:"user"`
	Keytab    KeytabConfig    `yaml:"keytab"`

	// TolerateBindErrors downgrades role-membership binding failures from
	// fatal to a warning event.
	TolerateBindErrors bool `yaml:"tolerate_bind_errors"`
}

// Default returns a Config populated with the standard portal setup.
func Default() *Config {
	return &Config{
		Server:     os.Getenv("IPA_SERVER"),
		BindUser:   DefaultBindUser,
		CACertFile: DefaultCACertFile,
		Privilege: PrivilegeConfig{
			Name:        DefaultPrivilegeName,
			Description: DefaultPrivilegeDesc,
			Permissions: DefaultPermissions(),
		},
		Role: RoleConfig{
			Name:        DefaultRoleName,
			Description: DefaultRoleDesc,
		},
		User: UserConfig{
			Name: DefaultUserName,
		},
		Keytab: KeytabConfig{
			Enabled: true,
			Path:    DefaultKeytabPath,
			Owner:   DefaultKeytabOwner,
		},
	}
}

// Validate checks that the merged configuration can drive a provisioning run.
func (c *Config) Validate() error {
	if c.Server == "" {
		return fmt.Errorf("no FreeIPA server configured: set server in the config file, --server, or IPA_SERVER")
	}
	if c.BindUser == "" {
		return fmt.Errorf("bind_user must not be empty")
	}
	if c.Privilege.Name == "" {
		return fmt.Errorf("privilege.name must not be empty")
	}
	if c.Role.Name == "" {
		return fmt.Errorf("role.name must not be empty")
	}
	if c.User.Name == "" {
		return fmt.Errorf("user.name must not be empty")
	}
	if c.Keytab.Enabled {
		if c.Keytab.Path == "" {
			return fmt.Errorf("keytab.path must not be empty when keytab retrieval is enabled")
		}
		if !filepath.IsAbs(c.Keytab.Path) {
			return fmt.Errorf("keytab.path must be absolute, got %q", c.Keytab.Path)
		}
		if c.Keytab.Owner == "" {
			return fmt.Errorf("keytab.owner must not be empty when keytab retrieval is enabled")
		}
	}
	return nil
}
