package store

import (
	"fmt"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IStore is the store a node executes remote commands against. Keys live in
// named buckets, a bucket exists as long as it holds at least one key.
// All write operations return only an error (nil on success),
// while read operations return the requested data along with an error.
type IStore interface {
	// Get returns the value for a key. The boolean return value indicates whether a value for the key was found.
	Get(bucket, key string) (value []byte, loaded bool, err error)
	// Put inserts or updates a key–value pair.
	Put(bucket, key string, value []byte) (err error)
	// Remove deletes a key–value pair. The boolean return value indicates whether the key existed.
	Remove(bucket, key string) (removed bool, err error)
	// Contains returns whether a key exists in the bucket.
	Contains(bucket, key string) (loaded bool, err error)
	// Keys returns the keys of a bucket in lexical order.
	Keys(bucket string) (keys []string, err error)
	// Size returns the number of keys in a bucket.
	Size(bucket string) (size int, err error)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("StoreError (code %s): %s", e.Code, e.Msg)
}

// NewError creates a new store error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess              RetCode = iota // 0: Command executed successfully.
	RetCInternalError                       // 1: Command failed due to an internal error.
	RetCUnsupportedOperation                // 2: Operation is not supported by the store.
	RetCInvalidOperation                    // 3: Invalid operation (e.g. empty bucket name).
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCUnsupportedOperation:
		return "UnsupportedOperation"
	case RetCInvalidOperation:
		return "InvalidOperation"
	default:
		return "Unknown"
	}
}
