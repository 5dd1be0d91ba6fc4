// Package transport defines the interfaces for node-to-node communication in
// the cluster. It provides the contract every transport implementation must
// fulfill, so the layers above never depend on a concrete network protocol.
//
// Key Components:
//
//   - IRPCClientTransport: One persistent, full duplex connection to a remote
//     node. It only moves opaque frames: writes are fire and forget, inbound
//     frames are delivered to a ClientHandleFunc. Correlating replies with
//     requests is left to the caller (see package node).
//
//   - IRPCServerTransport: Accepts connections from remote nodes and passes
//     every inbound frame to a ServerHandleFunc, writing its result back on
//     the same connection.
//
// Implementations live in the tcp and unix packages, both built on package base.
package transport
