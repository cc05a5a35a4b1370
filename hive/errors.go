package hive

import (
	"errors"

	"golang.org/x/xerrors"
)

// ErrNotVotable marks a vote target that is past its payout window. Expected,
// logged, never retried.
var ErrNotVotable = xerrors.New("target is no longer votable")

// TransientError wraps a network or RPC hiccup. The caller decides whether to
// retry or escalate.
type TransientError struct {
	err error
}

func (e *TransientError) Error() string {
	return "transient transport error: " + e.err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.err
}

// Transient wraps err so IsTransient recognizes it. nil stays nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{err: err}
}

// IsTransient reports whether err is a transport-level failure worth
// retrying.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
