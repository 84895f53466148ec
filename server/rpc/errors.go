package rpc

import (
	"errors"

	"github.com/arcana-network/frostsigner/dkg"
	"github.com/arcana-network/frostsigner/signing"
	"github.com/arcana-network/frostsigner/wire"
	"github.com/osamingo/jsonrpc/v2"
)

const (
	codeInvalidParams jsonrpc.ErrorCode = -32602
	codeInternal      jsonrpc.ErrorCode = -32603
	codeState         jsonrpc.ErrorCode = -32000
)

// toJRPCError maps an error onto its class: bad input, a session or nonce
// in the wrong state, or a failed cryptographic operation.
func toJRPCError(err error) *jsonrpc.Error {
	switch {
	case errors.Is(err, wire.ErrValidation):
		return &jsonrpc.Error{Code: codeInvalidParams, Message: "Input error", Data: err.Error()}
	case errors.Is(err, dkg.ErrSessionActive),
		errors.Is(err, dkg.ErrWrongState),
		errors.Is(err, dkg.ErrLengthMismatch),
		errors.Is(err, signing.ErrNonceReused):
		return &jsonrpc.Error{Code: codeState, Message: "State error", Data: err.Error()}
	default:
		return &jsonrpc.Error{Code: codeInternal, Message: "Internal error", Data: err.Error()}
	}
}
