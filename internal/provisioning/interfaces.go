// Package provisioning provides shared types and interfaces for the portal
// provisioning workflow.
//
// The workflow is organized into focused subpackages:
//   - access/ — privilege, role, service user and role membership
//   - credential/ — keytab retrieval
//
// This root package contains the phase pipeline, shared state and the
// observer used for structured progress reporting.
package provisioning

import "context"

// Phase defines the interface for a provisioning phase.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the provisioning logic for this phase.
	Provision(ctx *Context) error
}

// KeytabFetcher defines the interface for materializing a keytab file.
// Implemented by internal/platform/kerberos.Retriever.
type KeytabFetcher interface {
	// Exists reports whether a keytab file is already present at path.
	Exists(path string) bool

	// Fetch retrieves a keytab for the principal from the server, writes it
	// to path and applies ownership and mode for the named OS user.
	Fetch(ctx context.Context, server, principal, path, owner string) error
}
