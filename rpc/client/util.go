package client

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/dkvnode/rpc/common"
	"github.com/ValentinKolb/dkvnode/rpc/node"
	"github.com/lni/dragonboat/v4/logger"
)

var (
	Logger = logger.GetLogger(common.LoggerRPC)
)

// rpcClientAdapter stores everything the typed clients need to reach a node.
// Used by the RPCStore with composition pattern
type rpcClientAdapter struct {
	node node.INode
}

// invokeRPCRequest sends the command to the node and returns the result.
// Processing errors are returned as they are, so callers can inspect the code.
func invokeRPCRequest(n node.INode, cmd *common.Command) ([]byte, error) {
	result, err := n.Send(cmd)
	if err != nil {
		if common.IsCommunicationError(err) {
			Logger.Debugf("%s command to node %s failed: %v", cmd.Type, n.GetName(), err)
		}
		return nil, err
	}
	return result, nil
}

// isNotFound reports whether the remote node answered with not found
func isNotFound(err error) bool {
	var procErr *common.ProcessingError
	return errors.As(err, &procErr) && procErr.Code == common.NotFoundErrorCode
}

// Ping sends a ping command and returns the name the remote node answered with
func Ping(n node.INode) (string, error) {
	result, err := invokeRPCRequest(n, common.NewPingCommand())
	if err != nil {
		return "", err
	}
	if string(result) != n.GetName() {
		return string(result), fmt.Errorf("node %s answered ping as %s", n.GetName(), result)
	}
	return string(result), nil
}
