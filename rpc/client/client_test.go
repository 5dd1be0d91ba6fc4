package client

import (
	"github.com/ValentinKolb/dkvnode/lib/store/mstore"
	"github.com/ValentinKolb/dkvnode/rpc/common"
	"github.com/ValentinKolb/dkvnode/rpc/node"
	"github.com/ValentinKolb/dkvnode/rpc/serializer"
	"github.com/ValentinKolb/dkvnode/rpc/server"
	"github.com/ValentinKolb/dkvnode/rpc/transport/tcp"
	"github.com/stretchr/testify/require"
	"net"
	"strconv"
	"testing"
)

func startNode(t *testing.T, name string) node.INode {
	t.Helper()
	srv := server.NewRPCServer(common.ServeConfig{
		Name:              name,
		Endpoint:          "127.0.0.1:0",
		MaxFrameLength:    node.DefaultMaxFrameLength,
		MaxWorkersPerConn: 8,
	}, tcp.NewTCPDefaultServerTransport(), serializer.NewBinarySerializer(), mstore.NewMemoryStore(), server.NewIStoreServerAdapter(name))
	require.NoError(t, srv.Serve())
	t.Cleanup(func() { _ = srv.Close() })

	host, port, err := net.SplitHostPort(srv.Addr())
	require.NoError(t, err)
	p, err := strconv.Atoi(port)
	require.NoError(t, err)

	n := node.NewRemoteNodeFactory().MakeRemoteNodeWith(common.ServerConfiguration{Name: name, Host: host, Port: p}, 0, 2000)
	t.Cleanup(func() { _ = n.Disconnect() })
	return n
}

func TestRPCStore(t *testing.T) {
	s := NewRPCStore(startNode(t, "node-1"))

	_, found, err := s.Get("b", "k")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, s.Put("b", "k", []byte("v")))

	value, found, err := s.Get("b", "k")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "v", string(value))

	ok, err := s.Contains("b", "k")
	require.NoError(t, err)
	require.True(t, ok)

	keys, err := s.Keys("b")
	require.NoError(t, err)
	require.Equal(t, []string{"k"}, keys)

	size, err := s.Size("b")
	require.NoError(t, err)
	require.Equal(t, 1, size)

	removed, err := s.Remove("b", "k")
	require.NoError(t, err)
	require.True(t, removed)

	// invalid bucket is a processing error, not a missing key
	_, _, err = s.Get("", "k")
	require.True(t, common.IsProcessingError(err), "expected processing error, got %v", err)
}

func TestPing(t *testing.T) {
	n := startNode(t, "node-1")

	name, err := Ping(n)
	require.NoError(t, err)
	require.Equal(t, "node-1", name)
}
