// Package node implements the remote node handle: the unit the rest of the
// cluster uses to execute a Command on another member and wait for its result.
//
// Key Components:
//
//   - INode / remoteNode: identity (name, host, port), Connect, Disconnect and
//     Send. Equality and hash use the logical name only.
//
//   - tracker: correlates responses with pending requests. Every Send stamps a
//     fresh correlation id on a copy of the command, registers a waiter before
//     the frame is written and blocks on it until the response arrives, the
//     connection is torn down or the timeout elapses. The wait is bounded by a
//     monotonic deadline, so interruptions never extend it.
//
//   - IRemoteNodeFactory: builds ready, not yet connected nodes from a
//     ServerConfiguration, with process-wide defaults for max frame length and
//     timeout or explicit values.
//
// Failure model:
//
//	Send returns a *common.CommunicationError ("Communication error!") when the
//	node cannot be reached, the write fails or the connection is lost while
//	waiting, and "Communication timeout!" when no response arrived in time. The
//	command may or may not have been executed in both cases. A
//	*common.ProcessingError means the remote node received the command and
//	answered with a failure. Nothing is retried, that is left to the caller.
//
//	Responses arriving after their sender gave up are dropped.
//
// Usage:
//
//	factory := node.NewRemoteNodeFactory()
//	n := factory.MakeRemoteNode(common.ServerConfiguration{Name: "node-2", Host: "10.0.0.2", Port: 8080})
//	defer n.Disconnect()
//	value, err := n.Send(common.NewGetCommand("users", "42"))
package node
