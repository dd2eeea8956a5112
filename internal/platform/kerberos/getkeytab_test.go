package kerberos

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jcmturner/gokrb5/v8/iana/etypeID"
	"github.com/jcmturner/gokrb5/v8/keytab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-idm/portalctl/internal/config"
)

// fakeRunner records invocations and optionally writes a file, standing in
// for the ipa-getkeytab subprocess.
type fakeRunner struct {
	calls     int
	name      string
	args      []string
	writePath string
	writeData []byte
	err       error
	output    []byte
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls++
	f.name = name
	f.args = args
	if f.err == nil && f.writePath != "" {
		if err := os.WriteFile(f.writePath, f.writeData, 0640); err != nil {
			return nil, err
		}
	}
	return f.output, f.err
}

func staticOwner(uid, gid int) func(string) (Owner, error) {
	return func(string) (Owner, error) {
		return Owner{UID: uid, GID: gid}, nil
	}
}

func testKeytabBytes(t *testing.T) []byte {
	t.Helper()
	kt := keytab.New()
	err := kt.AddEntry("portal", "IPA.TEST", "password", time.Now(), 1, etypeID.AES256_CTS_HMAC_SHA1_96)
	require.NoError(t, err)
	data, err := kt.Marshal()
	require.NoError(t, err)
	return data
}

func retrieverTimeouts() *config.Timeouts {
	return &config.Timeouts{HTTP: time.Minute, Keytab: time.Minute, Connect: time.Minute}
}

func TestFetch_InvokesGetkeytabAndFixesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.keytab")
	runner := &fakeRunner{writePath: path, writeData: testKeytabBytes(t)}

	var chownPath string
	var chownUID, chownGID int
	r := NewRetriever(retrieverTimeouts(),
		WithRunner(runner),
		WithOwnerLookup(staticOwner(48, 48)),
		WithChown(func(p string, uid, gid int) error {
			chownPath, chownUID, chownGID = p, uid, gid
			return nil
		}),
	)

	err := r.Fetch(context.Background(), "ipa.example.org", "portal@IPA.TEST", path, "apache")
	require.NoError(t, err)

	assert.Equal(t, 1, runner.calls)
	assert.Equal(t, GetkeytabBinary, runner.name)
	assert.Equal(t, []string{"-s", "ipa.example.org", "-p", "portal@IPA.TEST", "-k", path}, runner.args)

	assert.Equal(t, path, chownPath)
	assert.Equal(t, 48, chownUID)
	assert.Equal(t, 48, chownGID)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, KeytabMode, info.Mode().Perm())
}

func TestFetch_SubprocessFailureIsFatal(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exit status 9"), output: []byte("Kerberos error\n")}
	r := NewRetriever(retrieverTimeouts(),
		WithRunner(runner),
		WithOwnerLookup(staticOwner(48, 48)),
	)

	err := r.Fetch(context.Background(), "ipa.example.org", "portal@IPA.TEST", "/tmp/nope.keytab", "apache")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ipa-getkeytab failed")
	assert.Contains(t, err.Error(), "Kerberos error")
}

func TestFetch_UnknownOwnerFailsBeforeSubprocess(t *testing.T) {
	runner := &fakeRunner{}
	r := NewRetriever(retrieverTimeouts(),
		WithRunner(runner),
		WithOwnerLookup(func(name string) (Owner, error) {
			return Owner{}, errors.New("unknown user " + name)
		}),
	)

	err := r.Fetch(context.Background(), "ipa.example.org", "portal@IPA.TEST", "/tmp/nope.keytab", "ghost")
	require.Error(t, err)
	assert.Zero(t, runner.calls, "subprocess must not run when the owner cannot be resolved")
}

func TestFetch_ChownFailureAfterWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.keytab")
	runner := &fakeRunner{writePath: path, writeData: testKeytabBytes(t)}
	r := NewRetriever(retrieverTimeouts(),
		WithRunner(runner),
		WithOwnerLookup(staticOwner(48, 48)),
		WithChown(func(string, int, int) error {
			return errors.New("operation not permitted")
		}),
	)

	err := r.Fetch(context.Background(), "ipa.example.org", "portal@IPA.TEST", path, "apache")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to chown")

	// The keytab was already written; partial state is left in place.
	assert.FileExists(t, path)
}

func TestFetch_RejectsGarbageKeytab(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.keytab")
	runner := &fakeRunner{writePath: path, writeData: []byte("not a keytab")}
	r := NewRetriever(retrieverTimeouts(),
		WithRunner(runner),
		WithOwnerLookup(staticOwner(48, 48)),
		WithChown(func(string, int, int) error { return nil }),
	)

	err := r.Fetch(context.Background(), "ipa.example.org", "portal@IPA.TEST", path, "apache")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not usable")
}

func TestVerifyKeytab_EmptyKeytab(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.keytab")
	// Version header only, no entries.
	require.NoError(t, os.WriteFile(path, []byte{0x05, 0x02}, 0600))

	err := verifyKeytab(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no entries")
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portal.keytab")

	r := NewRetriever(retrieverTimeouts())
	assert.False(t, r.Exists(path))

	require.NoError(t, os.WriteFile(path, []byte{0x05, 0x02}, 0600))
	assert.True(t, r.Exists(path))
}

func TestResolveOwner_Unknown(t *testing.T) {
	_, err := ResolveOwner("definitely-not-a-user-4242")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keytab owner")
}
