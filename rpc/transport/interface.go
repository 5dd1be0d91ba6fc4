package transport

import (
	"github.com/ValentinKolb/dkvnode/rpc/common"
)

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// ServerHandleFunc is called by a server transport for every inbound frame.
// The returned bytes are written back as one frame, a nil response means
// nothing is sent.
type ServerHandleFunc func(req []byte) (resp []byte)

// IRPCServerTransport accepts connections from remote nodes and hands every
// frame to the registered handler
type IRPCServerTransport interface {
	// RegisterHandler registers the handler for inbound frames.
	// Must be called before Listen.
	RegisterHandler(handler ServerHandleFunc)
	// Listen binds the endpoint and starts accepting connections in the
	// background. It returns once the listener is bound.
	Listen(config common.ServeConfig) error
	// Addr returns the bound address (useful when listening on port 0)
	Addr() string
	// Close stops accepting and closes all live connections
	Close() error
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// ClientHandleFunc receives every inbound frame of a client connection.
// The payload is only valid for the duration of the call.
type ClientHandleFunc func(payload []byte)

// ClientCloseFunc is called once when a client connection is torn down.
// err is nil for a local Close.
type ClientCloseFunc func(err error)

// IRPCClientTransport is one persistent connection to a remote node
type IRPCClientTransport interface {
	// Connect opens the connection, it is a no-op when already connected
	Connect(config common.ClientConfig) error
	// Close closes the connection and waits for the reader to exit,
	// it is a no-op when not connected
	Close() error
	// IsConnected reports whether Connect succeeded and no teardown happened since
	IsConnected() bool
	// IsUsable reports whether a frame can be written right now
	IsUsable() bool
	// Write sends one frame
	Write(payload []byte) error
	// OnReceive registers the inbound frame handler (before Connect)
	OnReceive(handler ClientHandleFunc)
	// OnClose registers the teardown handler (before Connect)
	OnClose(handler ClientCloseFunc)
}
