package client

import (
	"github.com/ValentinKolb/dkvnode/lib/store"
	"github.com/ValentinKolb/dkvnode/rpc/common"
	"github.com/ValentinKolb/dkvnode/rpc/node"
)

// NewRPCStore creates a store.IStore whose operations are executed on a
// remote node. The node connects lazily on the first operation.
func NewRPCStore(n node.INode) store.IStore {
	return &rpcStore{
		rpcClientAdapter{
			node: n,
		},
	}
}

type rpcStore struct {
	rpcClientAdapter
}

// --------------------------------------------------------------------------
// Interface Methods (docu see the store package in interface.go)
// --------------------------------------------------------------------------

func (i *rpcStore) Get(bucket, key string) (value []byte, loaded bool, err error) {
	result, err := invokeRPCRequest(i.node, common.NewGetCommand(bucket, key))
	if isNotFound(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return result, true, nil
}

func (i *rpcStore) Put(bucket, key string, value []byte) (err error) {
	_, err = invokeRPCRequest(i.node, common.NewPutCommand(bucket, key, value))
	return err
}

func (i *rpcStore) Remove(bucket, key string) (removed bool, err error) {
	result, err := invokeRPCRequest(i.node, common.NewRemoveCommand(bucket, key))
	if err != nil {
		return false, err
	}
	return common.DecodeBool(result)
}

func (i *rpcStore) Contains(bucket, key string) (loaded bool, err error) {
	result, err := invokeRPCRequest(i.node, common.NewContainsCommand(bucket, key))
	if err != nil {
		return false, err
	}
	return common.DecodeBool(result)
}

func (i *rpcStore) Keys(bucket string) (keys []string, err error) {
	result, err := invokeRPCRequest(i.node, common.NewKeysCommand(bucket))
	if err != nil {
		return nil, err
	}
	return common.DecodeKeys(result)
}

func (i *rpcStore) Size(bucket string) (size int, err error) {
	result, err := invokeRPCRequest(i.node, common.NewSizeCommand(bucket))
	if err != nil {
		return 0, err
	}
	return common.DecodeSize(result)
}
