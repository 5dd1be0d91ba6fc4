// Package common provides the data structures shared by all rpc packages.
//
// Key Components:
//
//   - Command: an operation request for a remote node. Its ID is the
//     correlation id, assigned by the sender when the command is sent.
//
//   - Response: the reply correlated to exactly one Command, carrying either an
//     opaque result or an ErrorMessage (code + message).
//
//   - Errors: ConnectError (the connection could not be opened),
//     CommunicationError (transport failure or timeout, code 500) and
//     ProcessingError (the remote node answered with a failure). Callers branch
//     on them with IsCommunicationError and IsProcessingError to decide whether
//     a retry on another node makes sense.
//
//   - ServerConfiguration, ClientConfig, ServeConfig: node identity and the
//     client and server transport settings.
//
//   - Logger: Custom logging implementation that integrates with Dragonboat's
//     logging facade while providing consistent formatting across the application.
package common
