package server

import (
	"fmt"
	"github.com/ValentinKolb/dkvnode/lib/store"
	"github.com/ValentinKolb/dkvnode/rpc/common"
	"github.com/ValentinKolb/dkvnode/rpc/serializer"
	"github.com/ValentinKolb/dkvnode/rpc/transport"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"os/signal"
	"runtime"
	"syscall"
	"time"
)

var Logger = logger.GetLogger(common.LoggerRPC)

var (
	requestsOK        = metrics.NewCounter(`dkvnode_server_requests_total{outcome="ok"}`)
	requestsFailed    = metrics.NewCounter(`dkvnode_server_requests_total{outcome="error"}`)
	requestsMalformed = metrics.NewCounter(`dkvnode_server_requests_total{outcome="malformed"}`)
	handleDuration    = metrics.NewHistogram(`dkvnode_server_handle_duration_seconds`)
)

// NewRPCServer creates a new RPC server answering commands of remote nodes.
// It takes a config, transport, serializer, the store commands run against
// and the adapter executing them.
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		tcp.NewTCPDefaultServerTransport(),
//		serializer.NewBinarySerializer(),
//		mstore.NewMemoryStore(),
//		server.NewIStoreServerAdapter(config.Name),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	}
func NewRPCServer(
	config common.ServeConfig,
	transport transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
	store store.IStore,
	adapter IRPCServerAdapter,
) *RPCServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	Logger.Infof("Created RPC Server")
	Logger.Infof(config.String())

	return &RPCServer{
		config:     config,
		transport:  transport,
		serializer: serializer,
		store:      store,
		adapter:    adapter,
	}
}

// RPCServer decodes inbound commands, runs them through its adapter and
// answers with the correlated response
type RPCServer struct {
	config     common.ServeConfig
	transport  transport.IRPCServerTransport
	serializer serializer.IRPCSerializer
	store      store.IStore
	adapter    IRPCServerAdapter
}

// Serve starts the transport layer. It returns once the endpoint is bound,
// connections are served in the background until Close is called.
func (s *RPCServer) Serve() error {
	s.transport.RegisterHandler(s.handle)
	if err := s.transport.Listen(s.config); err != nil {
		return fmt.Errorf("failed to start %s server: %w", s.config.Name, err)
	}
	Logger.Infof("Node %s serving on %s", s.config.Name, s.transport.Addr())
	return nil
}

// Addr returns the address the server is bound to
func (s *RPCServer) Addr() string {
	return s.transport.Addr()
}

// Close stops the server and closes all connections
func (s *RPCServer) Close() error {
	return s.transport.Close()
}

// handle processes one inbound frame. Frames that cannot be answered
// (undecodable, no correlation id) are dropped.
func (s *RPCServer) handle(req []byte) []byte {
	start := time.Now()
	defer handleDuration.UpdateDuration(start)

	var cmd common.Command
	if err := s.serializer.DeserializeCommand(req, &cmd); err != nil {
		requestsMalformed.Inc()
		Logger.Warningf("Dropping undecodable command of %d bytes: %v", len(req), err)
		return nil
	}
	if cmd.ID == "" {
		requestsMalformed.Inc()
		Logger.Warningf("Dropping %s command without correlation id", cmd.Type)
		return nil
	}

	resp := s.adapter.Handle(&cmd, s.store)
	if resp == nil {
		resp = common.NewErrorResponse(cmd.ID, common.InternalServerErrorCode, "handler returned no response")
	}
	resp.CorrelationID = cmd.ID

	if resp.Ok {
		requestsOK.Inc()
	} else {
		requestsFailed.Inc()
	}

	data, err := s.serializer.SerializeResponse(*resp)
	if err != nil {
		Logger.Errorf("Failed to serialize response to %s command %s: %v", cmd.Type, cmd.ID, err)
		data, err = s.serializer.SerializeResponse(*common.NewErrorResponse(cmd.ID, common.InternalServerErrorCode,
			fmt.Sprintf("failed to serialize response: %s", err)))
		if err != nil {
			return nil
		}
	}
	return data
}
