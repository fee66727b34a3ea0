// Copyright (c) 2014 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcjson

// Standard JSON-RPC 2.0 error codes.  bitcoind reports an unknown method
// with ErrRPCMethodNotFound and HTTP status 404.
const (
	ErrRPCInvalidRequestCode RPCErrorCode = -32600
	ErrRPCMethodNotFoundCode RPCErrorCode = -32601
	ErrRPCInvalidParamsCode  RPCErrorCode = -32602
	ErrRPCInternalCode       RPCErrorCode = -32603
	ErrRPCParseCode          RPCErrorCode = -32700
)

// Standard JSON-RPC 2.0 errors.
var (
	ErrRPCInvalidRequest = &RPCError{
		Code:    ErrRPCInvalidRequestCode,
		Message: "Invalid request",
	}
	ErrRPCMethodNotFound = &RPCError{
		Code:    ErrRPCMethodNotFoundCode,
		Message: "Method not found",
	}
	ErrRPCInvalidParams = &RPCError{
		Code:    ErrRPCInvalidParamsCode,
		Message: "Invalid parameters",
	}
	ErrRPCInternal = &RPCError{
		Code:    ErrRPCInternalCode,
		Message: "Internal error",
	}
	ErrRPCParse = &RPCError{
		Code:    ErrRPCParseCode,
		Message: "Parse error",
	}
)

// Application defined codes the chain, mempool and network queries return.
const (
	// ErrRPCMisc is returned for failures without a more specific code,
	// such as reading a block whose data was pruned.
	ErrRPCMisc RPCErrorCode = -1

	// ErrRPCType indicates a parameter of the wrong JSON type.
	ErrRPCType RPCErrorCode = -3

	// ErrRPCInvalidAddressOrKey is returned for unknown blocks and
	// transactions.
	ErrRPCInvalidAddressOrKey RPCErrorCode = -5

	// ErrRPCInvalidParameter indicates an invalid, missing, or duplicate
	// parameter.
	ErrRPCInvalidParameter RPCErrorCode = -8

	// ErrRPCDeserialization indicates a raw transaction or block that does
	// not parse.
	ErrRPCDeserialization RPCErrorCode = -22

	// ErrRPCInWarmup is returned for every call while the node is still
	// loading its indexes.
	ErrRPCInWarmup RPCErrorCode = -28

	// ErrRPCClientP2PDisabled is returned by the network queries when the
	// node runs without networking.
	ErrRPCClientP2PDisabled RPCErrorCode = -31

	// ErrRPCMethodDeprecated indicates that the RPC method is deprecated.
	ErrRPCMethodDeprecated RPCErrorCode = -32

	// ErrRPCClientMempoolDisabled is returned by the mempool queries when
	// the node runs without a mempool.
	ErrRPCClientMempoolDisabled RPCErrorCode = -33
)

// Codes of specific failures of the catalog methods, aliasing the general
// codes above.
const (
	ErrRPCBlockNotFound      RPCErrorCode = -5
	ErrRPCNoTxInfo           RPCErrorCode = -5
	ErrRPCMempoolEntryAbsent RPCErrorCode = -5
	ErrRPCOutOfRange         RPCErrorCode = -8
	ErrRPCDecodeHexString    RPCErrorCode = -22
	ErrRPCBlockPruned        RPCErrorCode = -1
)
