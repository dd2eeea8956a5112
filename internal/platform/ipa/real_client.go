package ipa

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"

	"github.com/tehwalris/go-freeipa/freeipa"

	"github.com/campus-idm/portalctl/internal/config"
)

// RealClient implements AccessManager against a live FreeIPA server using
// the go-freeipa JSON-RPC client.
//
// The underlying client does not thread context through individual RPCs;
// cancellation is bounded by the transport timeouts configured at connect
// time instead.
type RealClient struct {
	conn   *freeipa.Client
	server string
}

// connectFreeipa is a test seam for the go-freeipa session constructor.
var connectFreeipa = freeipa.Connect

// Connect establishes a session with the FreeIPA server and verifies it with
// a ping. Any failure here returns a *ConnectionError so the caller can
// distinguish "server not responding" from workflow errors.
func Connect(cfg *config.Config, timeouts *config.Timeouts) (*RealClient, error) {
	tspt, err := newTransport(cfg, timeouts)
	if err != nil {
		return nil, err
	}

	conn, err := connectFreeipa(cfg.Server, tspt, cfg.BindUser, cfg.BindPassword)
	if err != nil {
		return nil, &ConnectionError{Server: cfg.Server, Err: err}
	}

	c := &RealClient{conn: conn, server: cfg.Server}
	if err := c.ping(); err != nil {
		return nil, &ConnectionError{Server: cfg.Server, Err: err}
	}
	return c, nil
}

// newTransport builds the HTTP transport for the RPC session. The CA bundle
// installed by ipa-client-install is used when present, otherwise the system
// root pool.
func newTransport(cfg *config.Config, timeouts *config.Timeouts) (*http.Transport, error) {
	tlsCfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	if cfg.InsecureTLS {
		tlsCfg.InsecureSkipVerify = true // #nosec G402 -- explicit operator opt-in
	} else if cfg.CACertFile != "" {
		pem, err := os.ReadFile(cfg.CACertFile)
		if err == nil {
			pool := x509.NewCertPool()
			if !pool.AppendCertsFromPEM(pem) {
				return nil, fmt.Errorf("no usable certificates in %s", cfg.CACertFile)
			}
			tlsCfg.RootCAs = pool
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read CA bundle: %w", err)
		}
	}

	return &http.Transport{
		TLSClientConfig:       tlsCfg,
		ResponseHeaderTimeout: timeouts.HTTP,
	}, nil
}

// ping issues the server's no-op health check.
func (c *RealClient) ping() error {
	_, err := c.conn.Ping(&freeipa.PingArgs{}, &freeipa.PingOptionalArgs{})
	return err
}

// AddPrivilege creates a privilege with the given description.
func (c *RealClient) AddPrivilege(_ context.Context, name, description string) error {
	_, err := c.conn.PrivilegeAdd(
		&freeipa.PrivilegeAddArgs{Cn: name},
		&freeipa.PrivilegeAddOptionalArgs{Description: freeipa.String(description)},
	)
	return err
}

// AddPermissionToPrivilege attaches one permission to the privilege.
// FreeIPA reports unknown members through the "completed" counter rather
// than an RPC error, so a zero counter is surfaced as ErrIncomplete.
func (c *RealClient) AddPermissionToPrivilege(_ context.Context, privilege, permission string) error {
	res, err := c.conn.PrivilegeAddPermission(
		&freeipa.PrivilegeAddPermissionArgs{Cn: privilege},
		&freeipa.PrivilegeAddPermissionOptionalArgs{Permission: &[]string{permission}},
	)
	if err != nil {
		return err
	}
	if res.Completed == 0 {
		return fmt.Errorf("permission %q not attached to privilege %q: %w", permission, privilege, ErrIncomplete)
	}
	return nil
}

// AddRole creates a role with the given description.
func (c *RealClient) AddRole(_ context.Context, name, description string) error {
	_, err := c.conn.RoleAdd(
		&freeipa.RoleAddArgs{Cn: name},
		&freeipa.RoleAddOptionalArgs{Description: freeipa.String(description)},
	)
	return err
}

// AddPrivilegeToRole attaches the privilege to the role. Re-attaching an
// already attached privilege completes with a zero counter, which is fine
// here; only RPC-level errors are returned.
func (c *RealClient) AddPrivilegeToRole(_ context.Context, role, privilege string) error {
	_, err := c.conn.RoleAddPrivilege(
		&freeipa.RoleAddPrivilegeArgs{Cn: role},
		&freeipa.RoleAddPrivilegeOptionalArgs{Privilege: &[]string{privilege}},
	)
	return err
}

// AddRoleMember adds the user to the role.
func (c *RealClient) AddRoleMember(_ context.Context, role, user string) error {
	_, err := c.conn.RoleAddMember(
		&freeipa.RoleAddMemberArgs{Cn: role},
		&freeipa.RoleAddMemberOptionalArgs{User: &[]string{user}},
	)
	return err
}

// AddUser creates the service user account.
func (c *RealClient) AddUser(_ context.Context, name, givenName, surname string) error {
	_, err := c.conn.UserAdd(
		&freeipa.UserAddArgs{Givenname: givenName, Sn: surname},
		&freeipa.UserAddOptionalArgs{UID: freeipa.String(name)},
	)
	return err
}

// UserPrincipal looks up the user and returns the first recorded Kerberos
// principal name.
func (c *RealClient) UserPrincipal(_ context.Context, name string) (string, error) {
	res, err := c.conn.UserShow(
		&freeipa.UserShowArgs{},
		&freeipa.UserShowOptionalArgs{UID: freeipa.String(name)},
	)
	if err != nil {
		return "", err
	}
	if res.Result.Krbprincipalname == nil || len(*res.Result.Krbprincipalname) == 0 {
		return "", fmt.Errorf("user %q has no Kerberos principal", name)
	}
	return (*res.Result.Krbprincipalname)[0], nil
}

// Server returns the host this client is connected to.
func (c *RealClient) Server() string {
	return c.server
}

// Ensure interface compliance
var _ AccessManager = (*RealClient)(nil)
