package common

import (
	"encoding/json"
	"fmt"
)

// --------------------------------------------------------------------------
// Command Structure
// --------------------------------------------------------------------------

// Command is an operation request sent from one cluster node to another.
// The ID is not part of the command's identity: it is empty until the sender
// stamps a fresh correlation id on it at send time.
type Command struct {
	// Correlation id (assigned by the sender)
	ID string `json:"id"`

	// Type of command
	Type CommandType `json:"type"`

	// Operation fields, which ones are used depends on the type
	Bucket string `json:"bucket,omitempty"` // Used for: Get, Put, Remove, Contains, Keys, Size
	Key    string `json:"key,omitempty"`    // Used for: Get, Put, Remove, Contains
	Value  []byte `json:"value,omitempty"`  // Used for: Put

	// Opaque payload, understood only by the remote side (Custom commands)
	Meta []byte `json:"meta,omitempty"`
}

// --------------------------------------------------------------------------
// Response Structure
// --------------------------------------------------------------------------

// Response is the reply correlated to exactly one Command. It carries either
// an opaque result (Ok == true) or a structured error.
type Response struct {
	CorrelationID string        `json:"correlation_id"`
	Ok            bool          `json:"ok,omitempty"`
	Result        []byte        `json:"result,omitempty"`
	Error         *ErrorMessage `json:"error,omitempty"`
}

// ErrorMessage is the structured error a remote node returns when it failed
// to execute a command.
type ErrorMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// String returns "code: message"
func (e ErrorMessage) String() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

// Error codes, borrowed from HTTP status codes
const (
	BadRequestErrorCode           = 400
	NotFoundErrorCode             = 404
	InternalServerErrorCode       = 500
	UnsupportedOperationErrorCode = 501
	ServiceUnavailableErrorCode   = 503
)

// --------------------------------------------------------------------------
// Command Factory Functions
// --------------------------------------------------------------------------

// NewGetCommand creates a new Get command
func NewGetCommand(bucket, key string) *Command {
	return &Command{
		Type:   CmdTGet,
		Bucket: bucket,
		Key:    key,
	}
}

// NewPutCommand creates a new Put command
func NewPutCommand(bucket, key string, value []byte) *Command {
	return &Command{
		Type:   CmdTPut,
		Bucket: bucket,
		Key:    key,
		Value:  value,
	}
}

// NewRemoveCommand creates a new Remove command
func NewRemoveCommand(bucket, key string) *Command {
	return &Command{
		Type:   CmdTRemove,
		Bucket: bucket,
		Key:    key,
	}
}

// NewContainsCommand creates a new Contains command
func NewContainsCommand(bucket, key string) *Command {
	return &Command{
		Type:   CmdTContains,
		Bucket: bucket,
		Key:    key,
	}
}

// NewKeysCommand creates a new Keys command
func NewKeysCommand(bucket string) *Command {
	return &Command{
		Type:   CmdTKeys,
		Bucket: bucket,
	}
}

// NewSizeCommand creates a new Size command
func NewSizeCommand(bucket string) *Command {
	return &Command{
		Type:   CmdTSize,
		Bucket: bucket,
	}
}

// NewPingCommand creates a new Ping command (cluster management)
func NewPingCommand() *Command {
	return &Command{
		Type: CmdTPing,
	}
}

// NewCustomCommand creates a new Custom command with an opaque payload
func NewCustomCommand(meta []byte) *Command {
	return &Command{
		Type: CmdTCustom,
		Meta: meta,
	}
}

// --------------------------------------------------------------------------
// Response Factory Functions
// --------------------------------------------------------------------------

// NewSuccessResponse creates a successful response for the given correlation id
func NewSuccessResponse(correlationID string, result []byte) *Response {
	return &Response{
		CorrelationID: correlationID,
		Ok:            true,
		Result:        result,
	}
}

// NewErrorResponse creates a failed response for the given correlation id
func NewErrorResponse(correlationID string, code int, msg string) *Response {
	return &Response{
		CorrelationID: correlationID,
		Error: &ErrorMessage{
			Code:    code,
			Message: msg,
		},
	}
}

// --------------------------------------------------------------------------
// Command Type Definition
// --------------------------------------------------------------------------

// CommandType defines the operation a Command asks the remote node to execute.
type CommandType uint8

// String returns the string representation of a CommandType.
func (t CommandType) String() string {
	switch t {
	case CmdTGet:
		return "get"
	case CmdTPut:
		return "put"
	case CmdTRemove:
		return "remove"
	case CmdTContains:
		return "contains"
	case CmdTKeys:
		return "keys"
	case CmdTSize:
		return "size"
	case CmdTPing:
		return "ping"
	case CmdTCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaller interface for CommandType.
// This allows CommandType to be serialized as a string in JSON.
func (t CommandType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for CommandType.
func (t *CommandType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	switch s {
	case "get":
		*t = CmdTGet
	case "put":
		*t = CmdTPut
	case "remove":
		*t = CmdTRemove
	case "contains":
		*t = CmdTContains
	case "keys":
		*t = CmdTKeys
	case "size":
		*t = CmdTSize
	case "ping":
		*t = CmdTPing
	case "custom":
		*t = CmdTCustom
	case "unknown":
		*t = CmdTUnknown
	default:
		return fmt.Errorf("unknown command type: %s", s)
	}

	return nil
}

// --------------------------------------------------------------------------
// Command Type Constants
// --------------------------------------------------------------------------

const (
	CmdTUnknown CommandType = iota

	// Store operations

	CmdTGet      // Read a value
	CmdTPut      // Write a value
	CmdTRemove   // Remove a value
	CmdTContains // Check if a key exists
	CmdTKeys     // List the keys of a bucket
	CmdTSize     // Count the keys of a bucket

	// Cluster management operations

	CmdTPing // Liveness probe, answered with the node name

	// Custom operations

	CmdTCustom // Opaque payload handled by a custom adapter
)
