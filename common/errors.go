package common

import (
	"fmt"
)

// ChainCallError wraps any failure that came out of a chain RPC or
// contract call. Reverted distinguishes an on-chain revert (retrying
// with the same inputs will fail again) from a transport problem
// (retriable as-is).
type ChainCallError struct {
	Op       string
	Reverted bool
	Err      error
}

func (e *ChainCallError) Error() string {
	if e.Reverted {
		return fmt.Sprintf("%s: transaction reverted on chain", e.Op)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *ChainCallError) Unwrap() error {
	return e.Err
}

// Retriable reports whether the failure could go away on a plain retry.
func (e *ChainCallError) Retriable() bool {
	return !e.Reverted
}
