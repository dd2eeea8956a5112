package ipa

import (
	"errors"
	"fmt"

	"github.com/tehwalris/go-freeipa/freeipa"
)

// FreeIPA public error codes, as defined in ipalib/errors.py on the server.
// Only the codes this tool branches on are listed.
const (
	codeValidationError = 3009
	codeNotFound        = 4001
	codeDuplicateEntry  = 4002
)

// ConnectionError indicates the FreeIPA server could not be reached or did
// not answer the initial health check. It is raised before any
// resource-creation call and maps to a dedicated process exit code.
type ConnectionError struct {
	Server string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("FreeIPA server %s is not responding: %v", e.Server, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ErrIncomplete is returned when the server accepted a member-attachment
// call but completed zero attachments, which is how FreeIPA reports an
// unknown member name on privilege_add_permission and friends.
var ErrIncomplete = errors.New("server completed no attachments")

// IsDuplicateEntry reports whether the error is the server's DuplicateEntry
// condition on a create operation. The workflow treats this as "already
// exists, continue".
func IsDuplicateEntry(err error) bool {
	return isIpaErrorCode(err, codeDuplicateEntry)
}

// IsValidationError reports whether the error is the server's
// ValidationError condition, e.g. a permission name the server rejects.
func IsValidationError(err error) bool {
	return isIpaErrorCode(err, codeValidationError)
}

// IsNotFound reports whether the error is the server's NotFound condition.
func IsNotFound(err error) bool {
	return isIpaErrorCode(err, codeNotFound)
}

// isIpaErrorCode checks if the error is a FreeIPA API error with one of the
// given codes.
func isIpaErrorCode(err error, codes ...int) bool {
	if err == nil {
		return false
	}

	var ipaErr *freeipa.Error
	if errors.As(err, &ipaErr) {
		for _, code := range codes {
			if ipaErr.Code == code {
				return true
			}
		}
	}
	return false
}
