// Package mstore implements an in-memory store.IStore on concurrent hash maps
// (one xsync.MapOf per bucket). Data is not persisted between process restarts.
//
// All operations are thread-safe and lock free for readers. Values are copied
// on Put, so callers may reuse their buffers.
//
// Usage Example:
//
//	s := mstore.NewMemoryStore()
//	err := s.Put("users", "42", []byte("alice"))
//	value, found, err := s.Get("users", "42")
package mstore
