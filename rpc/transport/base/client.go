package base

import (
	"github.com/ValentinKolb/dkvnode/rpc/common"
	"github.com/ValentinKolb/dkvnode/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/pkg/errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

var Logger = logger.GetLogger(common.LoggerTransport)

const (
	// initial size of the per-connection read buffer
	defaultReadBufferSize = 4 * 1024
	// larger frames are read into a temporary buffer that is not kept
	maxRetainedReadBuffer = 1024 * 1024
)

// ErrNotConnected is returned by Write when there is no usable connection
var ErrNotConnected = errors.New("connection is not usable")

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IClientConnector defines the interface for transport-specific connection operations
type IClientConnector interface {
	// Connect dials the endpoint, giving up after timeout (0 = no timeout)
	Connect(endpoint string, timeout time.Duration) (net.Conn, error)

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string

	// UpgradeConnection applies protocol-specific settings to an established connection
	UpgradeConnection(conn net.Conn, config common.ClientConfig) error
}

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// clientConnection is one established socket. A new one is created for every
// successful Connect, so a stale reader or writer can never tear down a newer
// socket.
type clientConnection struct {
	conn    net.Conn
	config  common.ClientConfig
	writeMu sync.Mutex    // Protects writes, frames must not interleave
	closed  chan struct{} // Closed once the close handler of this connection returned
}

// clientTransport implements the core client transport functionality
// independent of the specific transport medium (unix, tcp, etc.)
type clientTransport struct {
	connector IClientConnector

	lifecycleMu sync.Mutex                       // Serializes Connect and Close
	current     atomic.Pointer[clientConnection] // nil while disconnected
	readerWg    sync.WaitGroup                   // The reader goroutine of the current connection
	previous    *clientConnection                // Last connection opened by Connect, guarded by lifecycleMu

	onReceive transport.ClientHandleFunc
	onClose   transport.ClientCloseFunc
}

// -----------------------------------------------------------
// Transport Factory Method (used for tcp, unix, etc.)
// -----------------------------------------------------------

// NewBaseClientTransport creates a new base client transport with the specified connector
func NewBaseClientTransport(connector IClientConnector) transport.IRPCClientTransport {
	return &clientTransport{
		connector: connector,
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCClientTransport)
// --------------------------------------------------------------------------

func (t *clientTransport) OnReceive(handler transport.ClientHandleFunc) {
	t.onReceive = handler
}

func (t *clientTransport) OnClose(handler transport.ClientCloseFunc) {
	t.onClose = handler
}

func (t *clientTransport) Connect(config common.ClientConfig) error {
	t.lifecycleMu.Lock()
	defer t.lifecycleMu.Unlock()

	if t.current.Load() != nil {
		return nil
	}

	// The previous connection may still be running its close handler, either
	// in its reader or in a sender whose write failed
	t.readerWg.Wait()
	if t.previous != nil {
		<-t.previous.closed
	}

	conn, err := t.connector.Connect(config.Endpoint, config.Timeout())
	if err != nil {
		return errors.Wrapf(err, "failed to connect to %s via %s", config.Endpoint, t.connector.GetName())
	}

	if err := t.connector.UpgradeConnection(conn, config); err != nil {
		_ = conn.Close()
		return errors.Wrapf(err, "failed to upgrade connection to %s", config.Endpoint)
	}

	c := &clientConnection{conn: conn, config: config, closed: make(chan struct{})}
	t.previous = c
	t.current.Store(c)

	t.readerWg.Add(1)
	go t.readLoop(c)

	Logger.Debugf("Connected to %s using %s transport", config.Endpoint, t.connector.GetName())
	return nil
}

func (t *clientTransport) Close() error {
	t.lifecycleMu.Lock()
	defer t.lifecycleMu.Unlock()

	if c := t.current.Load(); c != nil {
		t.teardown(c, nil)
	}

	// Wait for the reader to exit, it fails on the closed socket
	t.readerWg.Wait()
	if t.previous != nil {
		<-t.previous.closed
	}
	return nil
}

func (t *clientTransport) IsConnected() bool {
	return t.current.Load() != nil
}

func (t *clientTransport) IsUsable() bool {
	c := t.current.Load()
	return c != nil && c.conn != nil
}

func (t *clientTransport) Write(payload []byte) error {
	c := t.current.Load()
	if c == nil {
		return ErrNotConnected
	}

	c.writeMu.Lock()
	if timeout := c.config.Timeout(); timeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
			c.writeMu.Unlock()
			t.teardown(c, err)
			return errors.Wrap(err, "failed to set write deadline")
		}
	}
	err := writeFrame(c.conn, payload)
	c.writeMu.Unlock()

	if err != nil {
		// a partially written frame leaves the stream unusable
		t.teardown(c, err)
		return errors.Wrapf(err, "failed to write frame to %s", c.config.Endpoint)
	}
	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// readLoop reads frames until the connection fails and hands them to the
// receive handler
func (t *clientTransport) readLoop(c *clientConnection) {
	defer t.readerWg.Done()

	buf := make([]byte, defaultReadBufferSize)
	for {
		data, err := readFrame(c.conn, buf, c.config.MaxFrameLength)
		if err != nil {
			t.teardown(c, err)
			return
		}

		// keep a grown buffer unless it is too large to hold on to
		if cap(data) > cap(buf) && cap(data) <= maxRetainedReadBuffer {
			buf = data[:cap(data)]
		}

		if t.onReceive != nil {
			t.onReceive(data)
		}
	}
}

// teardown marks the transport disconnected, closes the socket and notifies
// the close handler. Only the first call for a connection has any effect.
func (t *clientTransport) teardown(c *clientConnection, cause error) {
	if !t.current.CompareAndSwap(c, nil) {
		return
	}
	defer close(c.closed)

	_ = c.conn.Close()

	switch {
	case cause == nil:
		Logger.Debugf("Closed connection to %s", c.config.Endpoint)
	case errors.Is(cause, io.EOF):
		Logger.Infof("Connection to %s closed by remote node", c.config.Endpoint)
	case errors.Is(cause, ErrFrameTooLarge):
		Logger.Errorf("Protocol violation on connection to %s: %v", c.config.Endpoint, cause)
	default:
		Logger.Warningf("Connection to %s lost: %v", c.config.Endpoint, cause)
	}

	if t.onClose != nil {
		t.onClose(cause)
	}
}
