// Package cmd implements the command-line interface of dkvnode. It can run a
// node answering commands of its peers and act as a peer itself, sending
// commands to a running node.
//
// The package is organized into several subpackages:
//
//   - serve: Starts a node serving an in-memory store to remote nodes
//   - node: Sends store and cluster commands to a remote node (get, put, ping, perf, ...)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Every flag can also be set with an environment variable DKVNODE_<FLAG>
// (e.g. DKVNODE_TIMEOUT_MS=500). Variables in .env and .env.local are loaded
// on startup.
//
// See dkvnode -help for a list of all commands.
package cmd
