package trpc

import (
	"errors"
	"net/http"
	"strings"
)

// Code is a tRPC error code name.
type Code string

const (
	CodeParseError         Code = "PARSE_ERROR"
	CodeBadRequest         Code = "BAD_REQUEST"
	CodeNotFound           Code = "NOT_FOUND"
	CodeMethodNotSupported Code = "METHOD_NOT_SUPPORTED"
	CodeInternal           Code = "INTERNAL_SERVER_ERROR"
)

var codeTable = map[Code]struct {
	rpc    int
	status int
}{
	CodeParseError:         {rpc: -32700, status: http.StatusBadRequest},
	CodeBadRequest:         {rpc: -32600, status: http.StatusBadRequest},
	CodeNotFound:           {rpc: -32004, status: http.StatusNotFound},
	CodeMethodNotSupported: {rpc: -32005, status: http.StatusMethodNotAllowed},
	CodeInternal:           {rpc: -32603, status: http.StatusInternalServerError},
}

// JSONRPCCode returns the numeric JSON-RPC code sent on the wire.
func (c Code) JSONRPCCode() int {
	if entry, ok := codeTable[c]; ok {
		return entry.rpc
	}
	return codeTable[CodeInternal].rpc
}

// HTTPStatus returns the HTTP status associated with the code.
func (c Code) HTTPStatus() int {
	if entry, ok := codeTable[c]; ok {
		return entry.status
	}
	return http.StatusInternalServerError
}

func codeFromJSONRPC(rpc int) Code {
	for code, entry := range codeTable {
		if entry.rpc == rpc {
			return code
		}
	}
	return CodeInternal
}

// Issue is a single input validation failure.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Error is a procedure failure with a tRPC code.
type Error struct {
	Code    Code
	Message string
	Issues  []Issue
	Cause   error
}

// NewError constructs an Error.
func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// AsError converts err into an *Error. Errors that carry no code become
// INTERNAL_SERVER_ERROR with the original message.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var te *Error
	if errors.As(err, &te) {
		return te
	}
	return &Error{Code: CodeInternal, Message: err.Error(), Cause: err}
}

func validationError(issues []Issue) *Error {
	parts := make([]string, 0, len(issues))
	for _, issue := range issues {
		if issue.Path == "" {
			parts = append(parts, issue.Message)
			continue
		}
		parts = append(parts, issue.Path+": "+issue.Message)
	}
	return &Error{
		Code:    CodeBadRequest,
		Message: strings.Join(parts, "; "),
		Issues:  issues,
	}
}
