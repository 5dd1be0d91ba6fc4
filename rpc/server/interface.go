package server

import (
	"github.com/ValentinKolb/dkvnode/lib/store"
	"github.com/ValentinKolb/dkvnode/rpc/common"
)

// IRPCServerAdapter executes decoded commands.
// It is responsible for turning a command into a response.
type IRPCServerAdapter interface {
	// Handle executes the command against the store and returns the response.
	// Failures are reported in the response, never as a nil response.
	// The server sets the correlation id, the adapter does not need to.
	Handle(cmd *common.Command, store store.IStore) (resp *common.Response)
}
