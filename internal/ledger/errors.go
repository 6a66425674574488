package ledger

import "errors"

var (
	// ErrNotFound means the record id is no longer present in the store.
	ErrNotFound = errors.New("record not found")

	// ErrPermissionDenied means the record's ownership stamp does not match
	// the active session. This is an advisory guard only: the stamp is a
	// locally generated pseudo-identifier, not a verified credential, and
	// the check is a plain string comparison.
	ErrPermissionDenied = errors.New("record belongs to another session")
)
