package provisioning

import (
	"context"

	"github.com/campus-idm/portalctl/internal/config"
	"github.com/campus-idm/portalctl/internal/platform/ipa"
)

// State holds the shared results of provisioning phases. It is progressively
// populated as each phase completes and is passed to subsequent phases that
// need earlier results.
type State struct {
	// UserExisted records that user creation hit an existing account.
	// Nothing branches on it today, but it is part of the ensurer contract
	// and the credential phase may need it in the future.
	UserExisted bool

	// Principal is the Kerberos principal resolved for the service user.
	// Populated by the credential phase just before keytab retrieval.
	Principal string

	// KeytabWritten records whether a new keytab file was produced in this
	// run (false when the step was skipped or disabled).
	KeytabWritten bool
}

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config   *config.Config
	State    *State
	Access   ipa.AccessManager
	Keytab   KeytabFetcher
	Observer Observer
}

// NewContext creates a new provisioning context.
func NewContext(ctx context.Context, cfg *config.Config, access ipa.AccessManager, keytab KeytabFetcher) *Context {
	return &Context{
		Context:  ctx,
		Config:   cfg,
		State:    &State{},
		Access:   access,
		Keytab:   keytab,
		Observer: NewConsoleObserver(),
	}
}
