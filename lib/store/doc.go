// Package store defines the storage a node executes remote commands against.
//
// Key Components:
//
//   - IStore Interface: bucketed Get, Put, Remove, Contains, Keys and Size.
//     The peer server (package rpc/server) maps each command type to one of
//     these methods.
//
//   - Error System: errors carry a RetCode, so the server can answer with a
//     matching error code instead of a generic internal error.
//
// Implementations:
//
//	- Memory Store (mstore): a concurrent in-memory implementation, used by the
//	  serve command and by tests. Available in the
//	  "github.com/ValentinKolb/dkvnode/lib/store/mstore" package.
package store
