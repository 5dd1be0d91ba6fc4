// Package client implements typed clients on top of a remote node handle.
// It provides an implementation of the store.IStore interface whose operations
// run on another cluster member.
//
// Key Components:
//
//   - NewRPCStore: wraps a node.INode into a store.IStore. A not found answer
//     of Get is mapped to (nil, false, nil), every other failure is returned
//     unchanged so callers can still tell communication from processing errors.
//
//   - Ping: checks that a node is alive and is the node it claims to be.
//
// Usage Example:
//
//	n := node.NewRemoteNodeFactory().MakeRemoteNode(common.ServerConfiguration{Name: "node-2", Host: "10.0.0.2", Port: 8080})
//	defer n.Disconnect()
//
//	s := client.NewRPCStore(n)
//	_ = s.Put("users", "42", []byte("alice"))
//	value, found, err := s.Get("users", "42")
//
// Thread Safety:
//
//	All clients are thread-safe, concurrent calls share the node's connection.
package client
