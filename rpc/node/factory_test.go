package node

import (
	"github.com/ValentinKolb/dkvnode/rpc/common"
	"github.com/ValentinKolb/dkvnode/rpc/serializer"
	"github.com/ValentinKolb/dkvnode/rpc/transport/unix"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestFactoryDefaults(t *testing.T) {
	configuration := common.ServerConfiguration{Name: "node-1", Host: "10.0.0.1", Port: 6000}
	n := NewRemoteNodeFactory().MakeRemoteNode(configuration).(*remoteNode)

	require.Equal(t, configuration, n.GetConfiguration())
	require.Equal(t, "10.0.0.1:6000", n.clientConfig.Endpoint)
	require.Equal(t, DefaultMaxFrameLength, n.clientConfig.MaxFrameLength)
	require.Equal(t, int64(DefaultNodeTimeoutMillis), n.clientConfig.TimeoutMillis)
	require.True(t, n.clientConfig.TCPConf.TCPNoDelay)
	require.Equal(t, "binary", n.serializer.GetName())
	require.False(t, n.transport.IsConnected(), "factory must not connect")
}

func TestFactoryExplicitValues(t *testing.T) {
	f := NewRemoteNodeFactory(
		WithDefaultMaxFrameLength(1024),
		WithDefaultTimeoutMillis(250),
		WithSerializer(serializer.NewJSONSerializer()),
	)
	configuration := common.ServerConfiguration{Name: "node-1", Host: "localhost", Port: 6000}

	n := f.MakeRemoteNode(configuration).(*remoteNode)
	require.Equal(t, 1024, n.clientConfig.MaxFrameLength)
	require.Equal(t, int64(250), n.clientConfig.TimeoutMillis)
	require.Equal(t, "json", n.serializer.GetName())

	n = f.MakeRemoteNodeWith(configuration, 4096, 2000).(*remoteNode)
	require.Equal(t, 4096, n.clientConfig.MaxFrameLength)
	require.Equal(t, int64(2000), n.clientConfig.TimeoutMillis)

	// non positive values fall back to the process wide defaults
	n = f.MakeRemoteNodeWith(configuration, 0, -1).(*remoteNode)
	require.Equal(t, DefaultMaxFrameLength, n.clientConfig.MaxFrameLength)
	require.Equal(t, int64(DefaultNodeTimeoutMillis), n.clientConfig.TimeoutMillis)
}

func TestFactoryBuildsIndependentNodes(t *testing.T) {
	f := NewRemoteNodeFactory()
	a := f.MakeRemoteNode(common.ServerConfiguration{Name: "a", Host: "h", Port: 1}).(*remoteNode)
	b := f.MakeRemoteNode(common.ServerConfiguration{Name: "b", Host: "h", Port: 2}).(*remoteNode)

	require.NotSame(t, a.transport, b.transport)
	require.NotSame(t, a.tracker, b.tracker)
}

func TestFactoryUnixTransport(t *testing.T) {
	f := NewRemoteNodeFactory(
		WithTransport(unix.NewUnixClientTransport),
		WithEndpointResolver(func(c common.ServerConfiguration) string {
			return "/tmp/" + c.Name + ".sock"
		}),
	)
	n := f.MakeRemoteNode(common.ServerConfiguration{Name: "node-1"}).(*remoteNode)
	require.Equal(t, "/tmp/node-1.sock", n.clientConfig.Endpoint)
}
