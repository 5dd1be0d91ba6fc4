package cmd

import (
	"fmt"
	"github.com/ValentinKolb/dkvnode/cmd/node"
	"github.com/ValentinKolb/dkvnode/cmd/serve"
	"github.com/ValentinKolb/dkvnode/cmd/util"
	"github.com/spf13/cobra"
	"os"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "dkvnode",
		Short: "cluster node of a distributed key-value store",
		Long: fmt.Sprintf(`dkvnode (v%s)

A cluster node of a distributed key-value store. Nodes exchange commands
over framed, multiplexed connections: many commands may be in flight on one
connection and every response is matched to its command by a correlation id.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dkvnode",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dkvnode v%s\n", Version)
		},
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(node.NodeCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "binary", util.WrapString("serializer to use (binary, json, gob). All nodes of a cluster must use the same one"))
	key = "transport"
	RootCmd.PersistentFlags().String(key, "tcp", util.WrapString("transport to use (tcp, unix)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
