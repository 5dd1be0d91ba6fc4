package node

import (
	"github.com/ValentinKolb/dkvnode/rpc/common"
)

// INode is the handle callers use to talk to one remote cluster member.
// Identity is the logical name only, host and port are where it can be reached.
type INode interface {
	// Connect establishes the connection if not already connected. Safe for
	// concurrent use and idempotent. A failure is returned as *common.ConnectError.
	Connect() error

	// Disconnect closes the connection if connected, idempotent. Sends in
	// flight fail with a communication error.
	Disconnect() error

	// Send executes the command on the remote node and returns its result.
	// It connects lazily. The error is a *common.CommunicationError when the
	// command could not be delivered or no response arrived in time, and a
	// *common.ProcessingError when the remote node answered with a failure.
	Send(cmd *common.Command) ([]byte, error)

	// GetName returns the logical node name
	GetName() string

	// GetHost returns the host the node is reached at
	GetHost() string

	// GetPort returns the port the node is reached at
	GetPort() int

	// GetConfiguration returns the full node identity
	GetConfiguration() common.ServerConfiguration

	// Equals reports whether other has the same logical name
	Equals(other INode) bool

	// Hash returns a hash of the logical name, equal nodes hash identically
	Hash() uint64

	// String returns the name and address of the node
	String() string
}

// IRemoteNodeFactory builds remote node handles from a node configuration
type IRemoteNodeFactory interface {
	// MakeRemoteNode builds a node using the factory defaults for max frame
	// length and timeout
	MakeRemoteNode(configuration common.ServerConfiguration) INode

	// MakeRemoteNodeWith builds a node with explicit max frame length (bytes)
	// and timeout (milliseconds)
	MakeRemoteNodeWith(configuration common.ServerConfiguration, maxFrameLength int, timeoutMillis int64) INode
}

// IIDGenerator produces correlation ids. Ids must be unique among the
// requests pending on one node.
type IIDGenerator interface {
	NextID() string
}
