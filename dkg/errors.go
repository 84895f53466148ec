package dkg

import "errors"

var (
	ErrSessionActive    = errors.New("a dkg session is already in progress")
	ErrWrongState       = errors.New("dkg session is not in the expected state")
	ErrLengthMismatch   = errors.New("number of package sets does not match the pending key count")
	ErrInvalidThreshold = errors.New("signer bounds must satisfy 1 <= min_signers <= max_signers <= 65535")
	ErrInvalidKeyCount  = errors.New("key_count must be at least 1")
)
