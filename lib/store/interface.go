package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/ValentinKolb/sgc/lib/collection"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// Predicate selects study groups for bulk operations. It must be a pure
// function: the store calls it while holding its critical section.
type Predicate func(g *collection.StudyGroup) bool

// IGroupStore is the interface for the authoritative in-memory collection
// of study groups, keyed and ordered by ID.
//
// All mutating operations are atomic with respect to their own checks
// (uniqueness, ownership): a failed operation leaves the store untouched.
// Two concurrent mutations against the same record are linearized; the
// second observes the first's effect.
type IGroupStore interface {
	// Insert adds a fully validated record. A zero ID means "allocate":
	// the store picks a fresh positive ID inside the same critical section
	// as the insert itself. An explicit ID that is already present fails
	// with RetCDuplicateID. The final ID is returned.
	Insert(g *collection.StudyGroup) (id int64, err error)
	// ReplaceByID atomically swaps the stored record for one carrying the
	// new fields, preserving ID, owner and creation timestamp.
	// Fails with RetCNotFound or RetCNotOwner.
	ReplaceByID(id int64, fields *collection.StudyGroup, requester string) error
	// RemoveByID removes a single record.
	// Fails with RetCNotFound or RetCNotOwner.
	RemoveByID(id int64, requester string) error
	// RemoveWhere removes every record matching the predicate AND owned by
	// the requester, as one atomic scan-and-remove pass. Records owned by
	// other identities are never removed, even if the predicate matches.
	// Returns the number of records removed.
	RemoveWhere(pred Predicate, requester string) (removed int, err error)
	// Clear removes every record owned by the requester.
	Clear(requester string) (removed int, err error)
	// Snapshot returns an immutable, consistent, ID-ordered point-in-time
	// view. It never observes a partially applied mutation.
	Snapshot() []*collection.StudyGroup
	// Has reports whether a record with the given ID is present.
	Has(id int64) bool
	// Size returns the number of records currently stored.
	Size() int
	// CreatedAt returns the instant the store was initialized.
	CreatedAt() time.Time
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is the recoverable error type returned by store and authorization
// operations. It wraps a return code and a message; the dispatcher converts
// it into a failure payload, never a crash.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("GroupStoreError (code %s): %s", e.Code, e.Msg)
}

// NewError creates a new store Error with the given code and message.
func NewError(code RetCode, format string, args ...interface{}) *Error {
	return &Error{
		Code: code,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// CodeOf extracts the return code from an error. Errors that are not store
// errors map to RetCInternalError.
func CodeOf(err error) RetCode {
	if err == nil {
		return RetCSuccess
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return RetCInternalError
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess           RetCode = iota // 0: Operation executed successfully.
	RetCInternalError                    // 1: Operation failed due to an internal error.
	RetCDuplicateID                      // 2: A record with this ID already exists.
	RetCNotFound                         // 3: No record with this ID exists.
	RetCNotOwner                         // 4: Requester does not own the record.
	RetCInvalidCredential                // 5: Credential could not be resolved to an identity.
	RetCMalformedRequest                 // 6: Request arguments failed validation.
)

// String returns the symbolic name of a return code.
func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCDuplicateID:
		return "DuplicateId"
	case RetCNotFound:
		return "NotFound"
	case RetCNotOwner:
		return "NotOwner"
	case RetCInvalidCredential:
		return "InvalidCredential"
	case RetCMalformedRequest:
		return "MalformedRequest"
	default:
		return "Unknown"
	}
}
