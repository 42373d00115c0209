// Package apperr defines the closed set of error kinds the service can
// surface. Every kind owns the HTTP status it maps to, so handlers never
// have to reclassify errors coming up from repositories, clients or the
// watermark executor.
package apperr

import (
	"fmt"
	"net/http"
)

// Error is one occurrence of an error kind. Code identifies the kind,
// Status is the HTTP status the surface responds with, Message is the
// plain-text body.
type Error struct {
	Code    string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code string, status int, message string, err error) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Request validation.

func EmptyUsername() *Error {
	return newError("EmptyUsername", http.StatusBadRequest, "Empty username", nil)
}

func TooShortPassword() *Error {
	return newError("TooShortPassword", http.StatusBadRequest, "password too short, at least 3 characters", nil)
}

func InvalidArgument(message string) *Error {
	return newError("InvalidArgument", http.StatusBadRequest, message, nil)
}

// User.

func UserAlreadyExists() *Error {
	return newError("UserAlreadyExists", http.StatusConflict, "User already exists", nil)
}

func UserNotFound() *Error {
	return newError("UserNotFound", http.StatusNotFound, "User not found", nil)
}

func InvalidPassword() *Error {
	return newError("InvalidPassword", http.StatusBadRequest, "Invalid password", nil)
}

func Database(err error) *Error {
	return newError("DatabaseError", http.StatusInternalServerError, "Database error", err)
}

// Image pipeline.

func DecodeBytes(err error) *Error {
	return newError("DecodeBytesError", http.StatusBadRequest, "Failed to decode image bytes", err)
}

func EncodeBytes(err error) *Error {
	return newError("EncodeBytesError", http.StatusBadRequest, "Failed to encode image bytes", err)
}

func JSONParse(err error) *Error {
	return newError("JsonParseError", http.StatusBadRequest, "Failed to parse JSON output", err)
}

func FailedStartAddWatermark() *Error {
	return newError("FailedStartAddWatermark", http.StatusInternalServerError, "Watermark process failed", nil)
}

func WatermarkProcess(message string) *Error {
	return newError("WatermarkProcessError", http.StatusInternalServerError, "Watermark process error: "+message, nil)
}

func IO(err error) *Error {
	return newError("IOError", http.StatusInternalServerError, "I/O error", err)
}

func IPFS(message string, err error) *Error {
	return newError("IpfsError", http.StatusInternalServerError, message, err)
}

// Ledger.

func ContractInitialize(message string, err error) *Error {
	return newError("ContractInitializeError", http.StatusBadRequest, message, err)
}

func SendTransaction(err error) *Error {
	return newError("SendTransactionError", http.StatusBadRequest, "Failed to send transaction", err)
}

func WatchTransaction(err error) *Error {
	return newError("WatchTransactionError", http.StatusInternalServerError, "Failed to watch transaction", err)
}

func ContractCall(err error) *Error {
	return newError("ContractCallError", http.StatusInternalServerError, "Contract call error", err)
}
