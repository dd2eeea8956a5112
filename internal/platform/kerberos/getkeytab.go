// Package kerberos materializes Kerberos keytab files for service accounts.
//
// Retrieval itself is delegated to the preinstalled ipa-getkeytab binary;
// this package wraps the subprocess call, sanity-checks the produced file
// with gokrb5 and applies the required ownership and mode.
package kerberos

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"strconv"
	"strings"
	"time"

	"github.com/jcmturner/gokrb5/v8/keytab"

	"github.com/campus-idm/portalctl/internal/config"
)

// GetkeytabBinary is the external tool used to retrieve keytabs. It ships
// with the FreeIPA client packages.
const GetkeytabBinary = "ipa-getkeytab"

// KeytabMode is the mode the keytab file ends up with: credential material,
// owner read/write only.
const KeytabMode os.FileMode = 0600

// Owner is a resolved OS identity for keytab file ownership.
type Owner struct {
	UID int
	GID int
}

// ResolveOwner resolves an OS user name to its numeric uid and primary gid.
func ResolveOwner(name string) (Owner, error) {
	u, err := user.Lookup(name)
	if err != nil {
		return Owner{}, fmt.Errorf("failed to look up keytab owner %q: %w", name, err)
	}
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return Owner{}, fmt.Errorf("non-numeric uid %q for user %q", u.Uid, name)
	}
	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return Owner{}, fmt.Errorf("non-numeric gid %q for user %q", u.Gid, name)
	}
	return Owner{UID: uid, GID: gid}, nil
}

// CommandRunner runs an external command and returns its combined output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner is the production CommandRunner backed by os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = os.Environ()
	return cmd.CombinedOutput()
}

// Retriever fetches keytabs via ipa-getkeytab and fixes up the resulting
// file. The file-system touch points are injectable for tests.
type Retriever struct {
	runner      CommandRunner
	timeout     time.Duration
	lookupOwner func(name string) (Owner, error)
	chown       func(path string, uid, gid int) error
	chmod       func(path string, mode os.FileMode) error
	verify      func(path string) error
}

// RetrieverOption configures a Retriever.
type RetrieverOption func(*Retriever)

// WithRunner replaces the subprocess runner.
func WithRunner(r CommandRunner) RetrieverOption {
	return func(k *Retriever) {
		k.runner = r
	}
}

// WithOwnerLookup replaces the OS user resolution.
func WithOwnerLookup(fn func(name string) (Owner, error)) RetrieverOption {
	return func(k *Retriever) {
		k.lookupOwner = fn
	}
}

// WithChown replaces the ownership change call.
func WithChown(fn func(path string, uid, gid int) error) RetrieverOption {
	return func(k *Retriever) {
		k.chown = fn
	}
}

// WithVerify replaces the keytab file verification.
func WithVerify(fn func(path string) error) RetrieverOption {
	return func(k *Retriever) {
		k.verify = fn
	}
}

// NewRetriever creates a Retriever with production defaults.
func NewRetriever(timeouts *config.Timeouts, opts ...RetrieverOption) *Retriever {
	r := &Retriever{
		runner:      execRunner{},
		timeout:     timeouts.Keytab,
		lookupOwner: ResolveOwner,
		chown:       os.Chown,
		chmod:       os.Chmod,
		verify:      verifyKeytab,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Exists reports whether a keytab file is already present at path.
func (r *Retriever) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Fetch retrieves a keytab for the principal from the given server, then
// chowns the file to the named OS user and restricts it to mode 0600.
//
// The subprocess writes the file before ownership and mode are applied, so
// a failure in the later steps leaves the keytab on disk with whatever
// attributes ipa-getkeytab gave it. That partial state is deliberate: the
// next run skips retrieval because the file exists, and remediation is left
// to the operator.
func (r *Retriever) Fetch(ctx context.Context, server, principal, path, ownerName string) error {
	owner, err := r.lookupOwner(ownerName)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	out, err := r.runner.Run(ctx, GetkeytabBinary, "-s", server, "-p", principal, "-k", path)
	if err != nil {
		return fmt.Errorf("%s failed: %w: %s", GetkeytabBinary, err, strings.TrimSpace(string(out)))
	}

	if err := r.verify(path); err != nil {
		return fmt.Errorf("retrieved keytab %s is not usable: %w", path, err)
	}

	if err := r.chown(path, owner.UID, owner.GID); err != nil {
		return fmt.Errorf("failed to chown keytab %s: %w", path, err)
	}
	if err := r.chmod(path, KeytabMode); err != nil {
		return fmt.Errorf("failed to chmod keytab %s: %w", path, err)
	}
	return nil
}

// verifyKeytab parses the file as a Kerberos keytab and requires at least
// one key entry.
func verifyKeytab(path string) error {
	kt, err := keytab.Load(path)
	if err != nil {
		return err
	}
	if len(kt.Entries) == 0 {
		return fmt.Errorf("keytab contains no entries")
	}
	return nil
}
