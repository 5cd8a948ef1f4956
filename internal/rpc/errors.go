package rpc

import "fmt"

// RpcError is the error half of a JSON-RPC result
type RpcError struct {
	Code        int    `json:"error_code"`
	ErrorString string `json:"error"`
	Message     string `json:"error_message,omitempty"`
}

func (e RpcError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.ErrorString
}

// Error codes
const (
	RpcUNKNOWN          = -1
	RpcMETHOD_NOT_FOUND = -32601
	RpcINVALID_PARAMS   = -32602
	RpcINTERNAL         = -32603
	RpcPARSE_ERROR      = -32700

	RpcMISSING_COMMAND = 2
	RpcNOT_ENABLED     = 31

	RpcENTRY_NOT_FOUND = 19
	RpcACT_MALFORMED   = 50
	RpcTX_MALFORMED    = 53
)

func NewRpcError(code int, errorString, message string) *RpcError {
	return &RpcError{Code: code, ErrorString: errorString, Message: message}
}

func RpcErrorInvalidParams(message string) *RpcError {
	return NewRpcError(RpcINVALID_PARAMS, "invalidParams", message)
}

func RpcErrorMethodNotFound(method string) *RpcError {
	return NewRpcError(RpcMETHOD_NOT_FOUND, "unknownCmd", "Unknown method: "+method)
}

func RpcErrorInternal(message string) *RpcError {
	return NewRpcError(RpcINTERNAL, "internal", message)
}

func RpcErrorEntryNotFound(format string, args ...any) *RpcError {
	return NewRpcError(RpcENTRY_NOT_FOUND, "entryNotFound", fmt.Sprintf(format, args...))
}

func RpcErrorActMalformed(message string) *RpcError {
	return NewRpcError(RpcACT_MALFORMED, "actMalformed", message)
}

func RpcErrorTxMalformed(message string) *RpcError {
	return NewRpcError(RpcTX_MALFORMED, "invalidTransaction", message)
}

func RpcErrorNotEnabled(message string) *RpcError {
	return NewRpcError(RpcNOT_ENABLED, "notEnabled", message)
}
