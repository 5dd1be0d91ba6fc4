// Package rpc provides the node-to-node communication layer of the cluster.
// A node uses it to execute commands on another member and to answer the
// commands other members send to it.
//
// The package is organized into several subpackages:
//
//   - common: Command and Response, the error taxonomy, configuration records
//     and the logger factory.
//
//   - serializer: payload formats (Binary, JSON, GOB) for Commands and Responses.
//
//   - transport: persistent, length-prefixed framed connections with pluggable
//     implementations (TCP, Unix sockets).
//
//   - node: the remote node handle. It correlates responses with the commands
//     that caused them and bounds how long a caller waits.
//
//   - server: executes inbound commands against a store and answers them.
package rpc
