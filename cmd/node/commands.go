package node

import (
	"fmt"
	"github.com/ValentinKolb/dkvnode/cmd/util"
	"github.com/ValentinKolb/dkvnode/rpc/client"
	"github.com/spf13/cobra"
	"strings"
)

var (
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Gets the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, loaded, err := rpcStore.Get(util.GetBucket(), args[0])
			if err != nil {
				return err
			}
			if !loaded {
				fmt.Println("key not found")
				return nil
			}
			fmt.Println(string(value))
			return nil
		},
	}
	putCmd = &cobra.Command{
		Use:   "put [key] [value]",
		Short: "Sets the value for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rpcStore.Put(util.GetBucket(), args[0], []byte(args[1])); err != nil {
				return err
			}
			fmt.Println("put successfully")
			return nil
		},
	}
	removeCmd = &cobra.Command{
		Use:   "remove [key]",
		Short: "Removes a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := rpcStore.Remove(util.GetBucket(), args[0])
			if err != nil {
				return err
			}
			if removed {
				fmt.Println("removed successfully")
			} else {
				fmt.Println("key not found")
			}
			return nil
		},
	}
	containsCmd = &cobra.Command{
		Use:   "contains [key]",
		Short: "Checks if a key exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := rpcStore.Contains(util.GetBucket(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(loaded)
			return nil
		},
	}
	keysCmd = &cobra.Command{
		Use:   "keys",
		Short: "Lists the keys of the bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := rpcStore.Keys(util.GetBucket())
			if err != nil {
				return err
			}
			if len(keys) > 0 {
				fmt.Println(strings.Join(keys, "\n"))
			}
			return nil
		},
	}
	sizeCmd = &cobra.Command{
		Use:   "size",
		Short: "Counts the keys of the bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := rpcStore.Size(util.GetBucket())
			if err != nil {
				return err
			}
			fmt.Println(size)
			return nil
		},
	}
	pingCmd = &cobra.Command{
		Use:   "ping",
		Short: "Checks that the remote node is reachable and answers with its name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := client.Ping(remoteNode)
			if err != nil {
				return err
			}
			fmt.Printf("pong from %s\n", name)
			return nil
		},
	}
)
