// Package unix implements the node-to-node transport over Unix domain sockets,
// for nodes running on the same machine (tests, local clusters).
//
// It extends the base transport with Unix socket connectors and inherits
// framing, response dispatch and the server worker pool from package base.
//
// Performance Characteristics:
//
//   - Default buffer size: 64 KB, tuned for local communication patterns
//   - No TCP/IP stack processing, so latency is lower than loopback TCP
package unix
