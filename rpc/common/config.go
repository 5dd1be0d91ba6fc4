package common

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Remote node identity
// --------------------------------------------------------------------------

// ServerConfiguration identifies a cluster member. The Name is unique per node
// and is the only field used for identity, Host and Port only tell where the
// node can be reached.
type ServerConfiguration struct {
	Name string
	Host string
	Port int
}

// Address returns the host:port endpoint of the node
func (c ServerConfiguration) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// String returns the node name followed by its address
func (c ServerConfiguration) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.Address())
}

// ParseServerConfiguration parses "name=host:port"
func ParseServerConfiguration(s string) (ServerConfiguration, error) {
	parts := strings.SplitN(s, "=", 2)
	if len(parts) != 2 || parts[0] == "" {
		return ServerConfiguration{}, fmt.Errorf("invalid node format: %s (expected name=host:port)", s)
	}
	host, port, err := net.SplitHostPort(parts[1])
	if err != nil {
		return ServerConfiguration{}, fmt.Errorf("invalid node address %s: %w", parts[1], err)
	}
	p, err := strconv.Atoi(port)
	if err != nil {
		return ServerConfiguration{}, fmt.Errorf("invalid node port %s: %w", port, err)
	}
	return ServerConfiguration{Name: parts[0], Host: host, Port: p}, nil
}

// --------------------------------------------------------------------------
// Socket configuration (shared by client and server)
// --------------------------------------------------------------------------

// SocketConf holds generic socket settings
type SocketConf struct {
	WriteBufferSize int // bytes, 0 = OS default
	ReadBufferSize  int // bytes, 0 = OS default
}

// TCPConf holds TCP specific socket settings
type TCPConf struct {
	TCPNoDelay      bool
	TCPKeepAliveSec int // 0 = disabled
	TCPLingerSec    int // 0 = OS default
}

// --------------------------------------------------------------------------
// Client (remote node) configuration struct
// --------------------------------------------------------------------------

// ClientConfig holds the transport settings of one connection to a remote node
type ClientConfig struct {
	// Endpoint is the address to dial (host:port or a unix socket path)
	Endpoint string
	// MaxFrameLength is the largest accepted inbound frame in bytes
	MaxFrameLength int
	// TimeoutMillis bounds connect and every send
	TimeoutMillis int64

	SocketConf SocketConf
	TCPConf    TCPConf
}

// Timeout returns TimeoutMillis as a time.Duration
func (c *ClientConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMillis) * time.Millisecond
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Remote Node Connection")
	addField("Endpoint", c.Endpoint)
	addField("Timeout", fmt.Sprintf("%d ms", c.TimeoutMillis))
	addField("Max Frame Length", fmt.Sprintf("%d bytes", c.MaxFrameLength))

	addSection("Socket")
	addField("Write Buffer", fmt.Sprintf("%d bytes", c.SocketConf.WriteBufferSize))
	addField("Read Buffer", fmt.Sprintf("%d bytes", c.SocketConf.ReadBufferSize))
	addField("TCP NoDelay", strconv.FormatBool(c.TCPConf.TCPNoDelay))
	addField("TCP KeepAlive", fmt.Sprintf("%d sec", c.TCPConf.TCPKeepAliveSec))
	addField("TCP Linger", fmt.Sprintf("%d sec", c.TCPConf.TCPLingerSec))

	return sb.String()
}

// --------------------------------------------------------------------------
// Serve (peer server) configuration struct
// --------------------------------------------------------------------------

// ServeConfig holds all configuration parameters of a node answering commands
type ServeConfig struct {
	// Name is the logical name of this node (returned by ping)
	Name string

	// Endpoint to listen on (host:port or a unix socket path)
	Endpoint string

	// MaxFrameLength is the largest accepted inbound frame in bytes
	MaxFrameLength int

	// TimeoutSecond bounds reads and writes of idle connections (0 = none)
	TimeoutSecond int64

	// MaxWorkersPerConn bounds how many commands of one connection run concurrently
	MaxWorkersPerConn int

	// MetricsEndpoint serves prometheus metrics if set (e.g. :9090)
	MetricsEndpoint string

	// Logging configuration
	LogLevel string

	SocketConf SocketConf
	TCPConf    TCPConf
}

// String returns a formatted string representation of the configuration
func (c *ServeConfig) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Node")
	addField("Name", c.Name)
	addField("Endpoint", c.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Max Frame Length", fmt.Sprintf("%d bytes", c.MaxFrameLength))
	addField("Workers per Conn", strconv.Itoa(c.MaxWorkersPerConn))

	addSection("Metrics")
	if c.MetricsEndpoint == "" {
		addField("Endpoint", "disabled")
	} else {
		addField("Endpoint", c.MetricsEndpoint)
	}

	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}
