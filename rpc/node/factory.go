package node

import (
	"github.com/ValentinKolb/dkvnode/rpc/common"
	"github.com/ValentinKolb/dkvnode/rpc/serializer"
	"github.com/ValentinKolb/dkvnode/rpc/transport"
	"github.com/ValentinKolb/dkvnode/rpc/transport/tcp"
)

// Process-wide defaults used by MakeRemoteNode
const (
	DefaultMaxFrameLength    = 8 * 1024 * 1024 // 8 MiB
	DefaultNodeTimeoutMillis = 10000           // 10 s
)

// remoteNodeFactory implements IRemoteNodeFactory
type remoteNodeFactory struct {
	maxFrameLength int
	timeoutMillis  int64
	serializer     serializer.IRPCSerializer
	newTransport   func() transport.IRPCClientTransport
	newIDGenerator func() IIDGenerator
	endpointOf     func(common.ServerConfiguration) string
	socketConf     common.SocketConf
	tcpConf        common.TCPConf
}

// FactoryOption configures the node factory
type FactoryOption func(*remoteNodeFactory)

// WithDefaultMaxFrameLength sets the max frame length used by MakeRemoteNode
func WithDefaultMaxFrameLength(bytes int) FactoryOption {
	return func(f *remoteNodeFactory) {
		f.maxFrameLength = bytes
	}
}

// WithDefaultTimeoutMillis sets the timeout used by MakeRemoteNode
func WithDefaultTimeoutMillis(millis int64) FactoryOption {
	return func(f *remoteNodeFactory) {
		f.timeoutMillis = millis
	}
}

// WithSerializer sets the payload format, both nodes must use the same one
func WithSerializer(s serializer.IRPCSerializer) FactoryOption {
	return func(f *remoteNodeFactory) {
		f.serializer = s
	}
}

// WithTransport sets the constructor of the client transport (tcp by default).
// It is called once per node.
func WithTransport(newTransport func() transport.IRPCClientTransport) FactoryOption {
	return func(f *remoteNodeFactory) {
		f.newTransport = newTransport
	}
}

// WithIDGenerator sets the constructor of the correlation id generator
// (random UUIDs by default). It is called once per node.
func WithIDGenerator(newIDGenerator func() IIDGenerator) FactoryOption {
	return func(f *remoteNodeFactory) {
		f.newIDGenerator = newIDGenerator
	}
}

// WithEndpointResolver sets how the dial endpoint is derived from a node
// configuration (host:port by default). Unix socket transports use it to map
// a node to its socket path.
func WithEndpointResolver(endpointOf func(common.ServerConfiguration) string) FactoryOption {
	return func(f *remoteNodeFactory) {
		f.endpointOf = endpointOf
	}
}

// WithSocketConf sets the socket settings applied to every connection
func WithSocketConf(socketConf common.SocketConf, tcpConf common.TCPConf) FactoryOption {
	return func(f *remoteNodeFactory) {
		f.socketConf = socketConf
		f.tcpConf = tcpConf
	}
}

// NewRemoteNodeFactory creates a factory for remote node handles
func NewRemoteNodeFactory(opts ...FactoryOption) IRemoteNodeFactory {
	f := &remoteNodeFactory{
		maxFrameLength: DefaultMaxFrameLength,
		timeoutMillis:  DefaultNodeTimeoutMillis,
		serializer:     serializer.NewBinarySerializer(),
		newTransport:   tcp.NewTCPClientTransport,
		newIDGenerator: NewUUIDGenerator,
		endpointOf:     common.ServerConfiguration.Address,
		tcpConf:        common.TCPConf{TCPNoDelay: true},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// --------------------------------------------------------------------------
// Interface Methods (docu see node.IRemoteNodeFactory)
// --------------------------------------------------------------------------

func (f *remoteNodeFactory) MakeRemoteNode(configuration common.ServerConfiguration) INode {
	return f.MakeRemoteNodeWith(configuration, f.maxFrameLength, f.timeoutMillis)
}

func (f *remoteNodeFactory) MakeRemoteNodeWith(configuration common.ServerConfiguration, maxFrameLength int, timeoutMillis int64) INode {
	if maxFrameLength <= 0 {
		maxFrameLength = DefaultMaxFrameLength
	}
	if timeoutMillis <= 0 {
		timeoutMillis = DefaultNodeTimeoutMillis
	}

	clientConfig := common.ClientConfig{
		Endpoint:       f.endpointOf(configuration),
		MaxFrameLength: maxFrameLength,
		TimeoutMillis:  timeoutMillis,
		SocketConf:     f.socketConf,
		TCPConf:        f.tcpConf,
	}

	return newRemoteNode(configuration, clientConfig, f.newTransport(), f.serializer, f.newIDGenerator())
}
