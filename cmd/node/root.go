package node

import (
	"github.com/ValentinKolb/dkvnode/cmd/util"
	"github.com/ValentinKolb/dkvnode/lib/store"
	"github.com/ValentinKolb/dkvnode/rpc/client"
	rpcnode "github.com/ValentinKolb/dkvnode/rpc/node"
	"github.com/spf13/cobra"
)

var (
	remoteNode rpcnode.INode
	rpcStore   store.IStore

	// NodeCommands represents the command group talking to a remote node
	NodeCommands = &cobra.Command{
		Use:                "node",
		Short:              "Send commands to a remote node",
		PersistentPreRunE:  setupRemoteNode,
		PersistentPostRunE: teardownRemoteNode,
	}
)

func init() {
	// Add remote node flags
	util.SetupNodeFlags(NodeCommands)

	// Add subcommands
	NodeCommands.AddCommand(getCmd)
	NodeCommands.AddCommand(putCmd)
	NodeCommands.AddCommand(removeCmd)
	NodeCommands.AddCommand(containsCmd)
	NodeCommands.AddCommand(keysCmd)
	NodeCommands.AddCommand(sizeCmd)
	NodeCommands.AddCommand(pingCmd)
	NodeCommands.AddCommand(perfTestCmd)
}

// setupRemoteNode creates the remote node handle and the store client on top of it
func setupRemoteNode(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	configuration, err := util.GetNodeConfiguration()
	if err != nil {
		return err
	}

	factory, err := util.NewNodeFactory()
	if err != nil {
		return err
	}

	remoteNode = factory.MakeRemoteNode(configuration)
	rpcStore = client.NewRPCStore(remoteNode)

	return nil
}

// teardownRemoteNode closes the connection of the remote node
func teardownRemoteNode(_ *cobra.Command, _ []string) error {
	if remoteNode == nil {
		return nil
	}
	return remoteNode.Disconnect()
}
