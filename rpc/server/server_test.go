package server

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/dkvnode/lib/store"
	"github.com/ValentinKolb/dkvnode/lib/store/mstore"
	"github.com/ValentinKolb/dkvnode/rpc/common"
	"github.com/ValentinKolb/dkvnode/rpc/node"
	"github.com/ValentinKolb/dkvnode/rpc/serializer"
	"github.com/ValentinKolb/dkvnode/rpc/transport"
	"github.com/ValentinKolb/dkvnode/rpc/transport/tcp"
	"github.com/ValentinKolb/dkvnode/rpc/transport/unix"
	"github.com/stretchr/testify/require"
	"net"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"
)

func startServer(t *testing.T, st transport.IRPCServerTransport, endpoint string, s serializer.IRPCSerializer) *RPCServer {
	t.Helper()
	srv := NewRPCServer(common.ServeConfig{
		Name:              "peer",
		Endpoint:          endpoint,
		MaxFrameLength:    node.DefaultMaxFrameLength,
		MaxWorkersPerConn: 16,
		TCPConf:           common.TCPConf{TCPNoDelay: true},
	}, st, s, mstore.NewMemoryStore(), NewIStoreServerAdapter("peer"))
	require.NoError(t, srv.Serve())
	t.Cleanup(func() { _ = srv.Close() })
	return srv
}

func startTCPServer(t *testing.T) (*RPCServer, common.ServerConfiguration) {
	t.Helper()
	srv := startServer(t, tcp.NewTCPDefaultServerTransport(), "127.0.0.1:0", serializer.NewBinarySerializer())
	host, port, err := net.SplitHostPort(srv.Addr())
	require.NoError(t, err)
	p, err := strconv.Atoi(port)
	require.NoError(t, err)
	return srv, common.ServerConfiguration{Name: "peer", Host: host, Port: p}
}

func requireProcessingCode(t *testing.T, err error, code int) {
	t.Helper()
	var procErr *common.ProcessingError
	require.True(t, errors.As(err, &procErr), "expected processing error, got %v", err)
	require.Equal(t, code, procErr.Code)
}

func TestStoreCommandsEndToEnd(t *testing.T) {
	_, configuration := startTCPServer(t)
	n := node.NewRemoteNodeFactory().MakeRemoteNodeWith(configuration, 0, 2000)
	defer n.Disconnect()

	name, err := n.Send(common.NewPingCommand())
	require.NoError(t, err)
	require.Equal(t, "peer", string(name))

	_, err = n.Send(common.NewPutCommand("users", "1", []byte("alice")))
	require.NoError(t, err)
	_, err = n.Send(common.NewPutCommand("users", "2", []byte("bob")))
	require.NoError(t, err)

	value, err := n.Send(common.NewGetCommand("users", "1"))
	require.NoError(t, err)
	require.Equal(t, "alice", string(value))

	result, err := n.Send(common.NewContainsCommand("users", "2"))
	require.NoError(t, err)
	ok, err := common.DecodeBool(result)
	require.NoError(t, err)
	require.True(t, ok)

	result, err = n.Send(common.NewKeysCommand("users"))
	require.NoError(t, err)
	keys, err := common.DecodeKeys(result)
	require.NoError(t, err)
	require.Equal(t, []string{"1", "2"}, keys)

	result, err = n.Send(common.NewRemoveCommand("users", "1"))
	require.NoError(t, err)
	removed, err := common.DecodeBool(result)
	require.NoError(t, err)
	require.True(t, removed)

	result, err = n.Send(common.NewSizeCommand("users"))
	require.NoError(t, err)
	size, err := common.DecodeSize(result)
	require.NoError(t, err)
	require.Equal(t, 1, size)
}

func TestErrorCodes(t *testing.T) {
	_, configuration := startTCPServer(t)
	n := node.NewRemoteNodeFactory().MakeRemoteNodeWith(configuration, 0, 2000)
	defer n.Disconnect()

	_, err := n.Send(common.NewGetCommand("users", "missing"))
	requireProcessingCode(t, err, common.NotFoundErrorCode)

	_, err = n.Send(common.NewPutCommand("", "k", nil))
	requireProcessingCode(t, err, common.BadRequestErrorCode)

	_, err = n.Send(common.NewCustomCommand([]byte("opaque")))
	requireProcessingCode(t, err, common.UnsupportedOperationErrorCode)

	// the connection survives processing errors
	_, err = n.Send(common.NewPingCommand())
	require.NoError(t, err)
}

func TestConcurrentClients(t *testing.T) {
	_, configuration := startTCPServer(t)
	f := node.NewRemoteNodeFactory()

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for c := 0; c < 4; c++ {
		n := f.MakeRemoteNodeWith(configuration, 0, 5000)
		defer n.Disconnect()

		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(c, i int) {
				defer wg.Done()
				key := fmt.Sprintf("%d-%d", c, i)
				if _, err := n.Send(common.NewPutCommand("b", key, []byte(key))); err != nil {
					errs <- err
					return
				}
				value, err := n.Send(common.NewGetCommand("b", key))
				if err != nil {
					errs <- err
					return
				}
				if string(value) != key {
					errs <- fmt.Errorf("expected %s, got %s", key, value)
				}
			}(c, i)
		}
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
}

func TestMalformedCommandsAreDropped(t *testing.T) {
	srv, _ := startTCPServer(t)
	s := serializer.NewBinarySerializer()

	received := make(chan []byte, 4)
	client := tcp.NewTCPClientTransport()
	client.OnReceive(func(payload []byte) {
		received <- append([]byte(nil), payload...)
	})
	require.NoError(t, client.Connect(common.ClientConfig{Endpoint: srv.Addr(), MaxFrameLength: 1024, TimeoutMillis: 1000}))
	defer client.Close()

	// undecodable and without correlation id: no answer
	require.NoError(t, client.Write([]byte{}))
	noID, err := s.SerializeCommand(*common.NewPingCommand())
	require.NoError(t, err)
	require.NoError(t, client.Write(noID))

	ping := *common.NewPingCommand()
	ping.ID = "abc"
	data, err := s.SerializeCommand(ping)
	require.NoError(t, err)
	require.NoError(t, client.Write(data))

	select {
	case payload := <-received:
		var resp common.Response
		require.NoError(t, s.DeserializeResponse(payload, &resp))
		require.Equal(t, "abc", resp.CorrelationID)
		require.True(t, resp.Ok)
	case <-time.After(2 * time.Second):
		t.Fatal("no response to the valid command")
	}

	require.Len(t, received, 0, "malformed commands must not be answered")
	require.True(t, client.IsConnected())
}

func TestUnixSocketTransport(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "peer.sock")
	startServer(t, unix.NewUnixDefaultServerTransport(), socketPath, serializer.NewJSONSerializer())

	n := node.NewRemoteNodeFactory(
		node.WithTransport(unix.NewUnixClientTransport),
		node.WithSerializer(serializer.NewJSONSerializer()),
		node.WithEndpointResolver(func(common.ServerConfiguration) string { return socketPath }),
	).MakeRemoteNode(common.ServerConfiguration{Name: "peer"})
	defer n.Disconnect()

	_, err := n.Send(common.NewPutCommand("b", "k", []byte("v")))
	require.NoError(t, err)
	value, err := n.Send(common.NewGetCommand("b", "k"))
	require.NoError(t, err)
	require.Equal(t, "v", string(value))
}

func TestServerCloseDisconnectsClients(t *testing.T) {
	srv, configuration := startTCPServer(t)
	n := node.NewRemoteNodeFactory().MakeRemoteNodeWith(configuration, 0, 2000)
	defer n.Disconnect()

	_, err := n.Send(common.NewPingCommand())
	require.NoError(t, err)

	require.NoError(t, srv.Close())

	// the node notices the teardown, and cannot reconnect
	_, err = n.Send(common.NewPingCommand())
	require.True(t, common.IsCommunicationError(err), "expected communication error, got %v", err)
}

func TestAdapterWithoutStore(t *testing.T) {
	adapter := NewIStoreServerAdapter("n1")

	resp := adapter.Handle(&common.Command{ID: "1", Type: common.CmdTPing}, nil)
	require.True(t, resp.Ok)
	require.Equal(t, "n1", string(resp.Result))

	resp = adapter.Handle(&common.Command{ID: "2", Type: common.CmdTGet, Bucket: "b", Key: "k"}, nil)
	require.False(t, resp.Ok)
	require.Equal(t, common.ServiceUnavailableErrorCode, resp.Error.Code)
}

func TestStoreErrorMapping(t *testing.T) {
	cmd := &common.Command{ID: "1", Type: common.CmdTPut}

	testCases := []struct {
		err  error
		code int
	}{
		{err: store.NewError(store.RetCInvalidOperation, "bad"), code: common.BadRequestErrorCode},
		{err: store.NewError(store.RetCUnsupportedOperation, "nope"), code: common.UnsupportedOperationErrorCode},
		{err: store.NewError(store.RetCInternalError, "broken"), code: common.InternalServerErrorCode},
		{err: errors.New("plain"), code: common.InternalServerErrorCode},
	}

	for _, tc := range testCases {
		resp := storeErrorResponse(cmd, tc.err)
		require.Equal(t, tc.code, resp.Error.Code, tc.err.Error())
		require.Equal(t, "1", resp.CorrelationID)
	}
}
