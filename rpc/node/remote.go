package node

import (
	"fmt"
	"github.com/ValentinKolb/dkvnode/rpc/common"
	"github.com/ValentinKolb/dkvnode/rpc/serializer"
	"github.com/ValentinKolb/dkvnode/rpc/transport"
	"github.com/cespare/xxhash/v2"
	"github.com/lni/dragonboat/v4/logger"
	"sync"
	"time"
)

var Logger = logger.GetLogger(common.LoggerNode)

// remoteNode implements INode on top of one client transport connection
type remoteNode struct {
	configuration common.ServerConfiguration
	clientConfig  common.ClientConfig

	transport  transport.IRPCClientTransport
	serializer serializer.IRPCSerializer
	ids        IIDGenerator
	tracker    *tracker
	metrics    *nodeMetrics

	stateMu sync.Mutex // Serializes Connect and Disconnect
}

// newRemoteNode wires a node to its transport. The transport must not be
// connected yet.
func newRemoteNode(
	configuration common.ServerConfiguration,
	clientConfig common.ClientConfig,
	t transport.IRPCClientTransport,
	s serializer.IRPCSerializer,
	ids IIDGenerator,
) *remoteNode {
	n := &remoteNode{
		configuration: configuration,
		clientConfig:  clientConfig,
		transport:     t,
		serializer:    s,
		ids:           ids,
		tracker:       newTracker(),
		metrics:       newNodeMetrics(configuration.Name),
	}
	t.OnReceive(n.handleFrame)
	t.OnClose(n.handleClose)
	return n
}

// --------------------------------------------------------------------------
// Interface Methods (docu see node.INode)
// --------------------------------------------------------------------------

func (n *remoteNode) Connect() error {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()

	if n.transport.IsConnected() {
		return nil
	}

	if err := n.transport.Connect(n.clientConfig); err != nil {
		n.metrics.connectErrors.Inc()
		Logger.Errorf("Failed to connect to node %s: %v", n, err)
		return common.NewConnectError(n.clientConfig.Endpoint, err)
	}

	n.metrics.connects.Inc()
	Logger.Infof("Connected to node %s", n)
	return nil
}

func (n *remoteNode) Disconnect() error {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()

	if !n.transport.IsConnected() {
		return nil
	}

	if err := n.transport.Close(); err != nil {
		return fmt.Errorf("failed to disconnect from node %s: %w", n, err)
	}

	Logger.Infof("Disconnected from node %s", n)
	return nil
}

func (n *remoteNode) Send(cmd *common.Command) ([]byte, error) {
	start := time.Now()
	result, err := n.send(cmd)
	n.metrics.observeSend(start, err)
	return result, err
}

func (n *remoteNode) GetName() string {
	return n.configuration.Name
}

func (n *remoteNode) GetHost() string {
	return n.configuration.Host
}

func (n *remoteNode) GetPort() int {
	return n.configuration.Port
}

func (n *remoteNode) GetConfiguration() common.ServerConfiguration {
	return n.configuration
}

func (n *remoteNode) Equals(other INode) bool {
	return other != nil && n.GetName() == other.GetName()
}

func (n *remoteNode) Hash() uint64 {
	return xxhash.Sum64String(n.configuration.Name)
}

func (n *remoteNode) String() string {
	return n.configuration.String()
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func (n *remoteNode) send(cmd *common.Command) ([]byte, error) {
	if cmd == nil {
		return nil, fmt.Errorf("command must not be nil")
	}

	// Connect lazily, the connection may also have been torn down since the
	// last send
	if !n.transport.IsConnected() {
		if err := n.Connect(); err != nil {
			return nil, common.NewCommunicationError(common.CommunicationErrorReason, err)
		}
	}
	if !n.transport.IsUsable() {
		return nil, common.NewCommunicationError(common.CommunicationErrorReason, nil)
	}

	// The caller's command is left untouched, so it can be sent again
	// (e.g. to another node) concurrently
	stamped := *cmd
	stamped.ID = n.ids.NextID()

	payload, err := n.serializer.SerializeCommand(stamped)
	if err != nil {
		// nothing was sent
		return nil, common.NewCommunicationError(common.CommunicationErrorReason,
			fmt.Errorf("failed to serialize %s command: %w", cmd.Type, err))
	}

	// The waiter must exist before the frame is written, the response may
	// arrive before Write returns
	w := n.tracker.register(stamped.ID)
	defer n.tracker.discard(stamped.ID)

	if err := n.transport.Write(payload); err != nil {
		return nil, common.NewCommunicationError(common.CommunicationErrorReason, err)
	}

	// time.Now carries a monotonic reading, so time.Until is not affected by
	// wall clock changes
	deadline := time.Now().Add(n.clientConfig.Timeout())
	res := w.await(time.Until(deadline))
	for res == waitInterrupted {
		res = w.await(time.Until(deadline))
	}

	resp, ok := n.tracker.consume(stamped.ID)
	if !ok {
		if res == waitSignaled {
			// signaled without a response: the connection was torn down
			return nil, common.NewCommunicationError(common.CommunicationErrorReason, nil)
		}
		Logger.Debugf("No response from node %s for %s command %s within %s",
			n.configuration.Name, cmd.Type, stamped.ID, n.clientConfig.Timeout())
		return nil, common.NewCommunicationError(common.CommunicationTimeoutReason, nil)
	}

	if resp.Ok {
		return resp.Result, nil
	}
	if resp.Error != nil {
		return nil, common.NewProcessingError(*resp.Error)
	}
	return nil, common.NewProcessingError(common.ErrorMessage{
		Code:    common.InternalServerErrorCode,
		Message: "remote node returned a failure without error",
	})
}

// handleFrame decodes an inbound frame and hands it to the tracker
func (n *remoteNode) handleFrame(payload []byte) {
	var resp common.Response
	if err := n.serializer.DeserializeResponse(payload, &resp); err != nil {
		Logger.Warningf("Dropping undecodable frame of %d bytes from node %s: %v", len(payload), n.configuration.Name, err)
		return
	}

	if resp.CorrelationID == "" {
		Logger.Warningf("Dropping response without correlation id from node %s", n.configuration.Name)
		return
	}

	if !n.tracker.onResponseReceived(&resp) {
		Logger.Debugf("Dropping late or duplicate response %s from node %s", resp.CorrelationID, n.configuration.Name)
	}
}

// handleClose fails all pending sends when the connection is torn down
func (n *remoteNode) handleClose(error) {
	n.metrics.disconnects.Inc()
	if failed := n.tracker.failAll(); failed > 0 {
		Logger.Warningf("Connection to node %s closed with %d pending commands", n.configuration.Name, failed)
	}
}
