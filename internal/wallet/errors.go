package wallet

import (
	"errors"
	"fmt"
)

var (
	// ErrCorruptIndex is terminal: the ownership page chain linked back to
	// a page already visited. It is reported, never retried automatically.
	ErrCorruptIndex = errors.New("wallet: corrupt ownership index")

	// ErrIndexUnavailable is transient: a read against the ownership index
	// failed at the transport level. Already-accumulated entries are kept
	// and the caller may retry.
	ErrIndexUnavailable = errors.New("wallet: ownership index unavailable")

	// ErrOperationNotPermitted is a client-side precondition failure; the
	// transaction was never sent to the network.
	ErrOperationNotPermitted = errors.New("wallet: operation not permitted")
)

// TxRejectedError is a ledger-side rejection of a submitted transaction.
// The wallet does not retry; the caller decides what to do with the code.
type TxRejectedError struct {
	Account   string
	Operation string
	Code      string
	Message   string
}

func (e *TxRejectedError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("wallet: %s for %s rejected: %s (%s)", e.Operation, e.Account, e.Code, e.Message)
	}
	return fmt.Sprintf("wallet: %s for %s rejected: %s", e.Operation, e.Account, e.Code)
}

// PartialCleanupError reports that an accept confirmed but the follow-up
// cancellation of the token's remaining offers failed. The transfer is
// final; only the cleanup is outstanding, and the stale offers will
// surface again on the next sync. This is not an overall failure of the
// accept operation.
type PartialCleanupError struct {
	AcceptHash string
	Err        error
}

func (e *PartialCleanupError) Error() string {
	return fmt.Sprintf("wallet: accept %s confirmed, but cancelling remaining offers failed: %v", e.AcceptHash, e.Err)
}

func (e *PartialCleanupError) Unwrap() error { return e.Err }
