// Package tcp implements the TCP socket transport for node-to-node commands.
// It provides concrete implementations of the base package's connector
// interfaces; framing, the reader goroutine and the server worker pool are
// inherited from package base.
//
// Key Components:
//
//   - clientConnector: dials with a timeout and applies the TCPConf and
//     SocketConf settings (no delay, buffer sizes, keep-alive, linger)
//
//   - serverConnector: creates the listener and applies the same settings to
//     every accepted connection
//
// The default server buffer size is 512 KB, which provides good performance
// for typical workloads, but can be customized for specific use cases.
package tcp
