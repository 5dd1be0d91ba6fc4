package common

import (
	"errors"
	"fmt"
)

// Reasons carried by communication errors
const (
	CommunicationErrorReason   = "Communication error!"
	CommunicationTimeoutReason = "Communication timeout!"
)

// --------------------------------------------------------------------------
// Connect Error
// --------------------------------------------------------------------------

// ConnectError is returned when the connection to a remote node could not be
// established. It is not retried by the transport, the caller decides.
type ConnectError struct {
	Endpoint string
	Cause    error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("error connecting to %s: %v", e.Endpoint, e.Cause)
}

func (e *ConnectError) Unwrap() error {
	return e.Cause
}

// NewConnectError creates a new ConnectError for the endpoint
func NewConnectError(endpoint string, cause error) *ConnectError {
	return &ConnectError{Endpoint: endpoint, Cause: cause}
}

// --------------------------------------------------------------------------
// Communication Error
// --------------------------------------------------------------------------

// CommunicationError is a transport level failure: the channel was not usable
// or no response arrived in time. The command may or may not have reached the
// remote node.
type CommunicationError struct {
	ErrorMessage
	Cause error
}

func (e *CommunicationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("communication error (code %d): %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("communication error (code %d): %s", e.Code, e.Message)
}

func (e *CommunicationError) Unwrap() error {
	return e.Cause
}

// NewCommunicationError creates a new CommunicationError with the internal
// server error code and the given reason
func NewCommunicationError(reason string, cause error) *CommunicationError {
	return &CommunicationError{
		ErrorMessage: ErrorMessage{Code: InternalServerErrorCode, Message: reason},
		Cause:        cause,
	}
}

// IsTimeout reports whether the error was caused by a missing response
func (e *CommunicationError) IsTimeout() bool {
	return e.Message == CommunicationTimeoutReason
}

// --------------------------------------------------------------------------
// Processing Error
// --------------------------------------------------------------------------

// ProcessingError is an application level failure: the remote node received
// the command and answered with a structured error.
type ProcessingError struct {
	ErrorMessage
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("processing error (code %d): %s", e.Code, e.Message)
}

// NewProcessingError creates a new ProcessingError from a remote error message
func NewProcessingError(msg ErrorMessage) *ProcessingError {
	return &ProcessingError{ErrorMessage: msg}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// IsCommunicationError reports whether err is (or wraps) a CommunicationError
func IsCommunicationError(err error) bool {
	var target *CommunicationError
	return errors.As(err, &target)
}

// IsProcessingError reports whether err is (or wraps) a ProcessingError
func IsProcessingError(err error) bool {
	var target *ProcessingError
	return errors.As(err, &target)
}

// IsConnectError reports whether err is (or wraps) a ConnectError
func IsConnectError(err error) bool {
	var target *ConnectError
	return errors.As(err, &target)
}
