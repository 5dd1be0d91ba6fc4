package server

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/dkvnode/lib/store"
	"github.com/ValentinKolb/dkvnode/rpc/common"
)

// NewIStoreServerAdapter creates the adapter for the store commands.
// name is returned for ping commands.
func NewIStoreServerAdapter(name string) IRPCServerAdapter {
	return &iStoreServerAdapterImpl{name: name}
}

type iStoreServerAdapterImpl struct {
	name string
}

func (adapter *iStoreServerAdapterImpl) Handle(cmd *common.Command, s store.IStore) *common.Response {
	// Ping does not need a store
	if cmd.Type == common.CmdTPing {
		return common.NewSuccessResponse(cmd.ID, []byte(adapter.name))
	}

	// Check for nil store
	if s == nil {
		return common.NewErrorResponse(cmd.ID, common.ServiceUnavailableErrorCode, "handler: store is nil")
	}

	// Handle different command types
	switch cmd.Type {
	case common.CmdTGet:
		val, ok, err := s.Get(cmd.Bucket, cmd.Key)
		if err != nil {
			return storeErrorResponse(cmd, err)
		}
		if !ok {
			return common.NewErrorResponse(cmd.ID, common.NotFoundErrorCode,
				fmt.Sprintf("key %s not found in bucket %s", cmd.Key, cmd.Bucket))
		}
		return common.NewSuccessResponse(cmd.ID, val)
	case common.CmdTPut:
		if err := s.Put(cmd.Bucket, cmd.Key, cmd.Value); err != nil {
			return storeErrorResponse(cmd, err)
		}
		return common.NewSuccessResponse(cmd.ID, nil)
	case common.CmdTRemove:
		removed, err := s.Remove(cmd.Bucket, cmd.Key)
		if err != nil {
			return storeErrorResponse(cmd, err)
		}
		return common.NewSuccessResponse(cmd.ID, common.EncodeBool(removed))
	case common.CmdTContains:
		ok, err := s.Contains(cmd.Bucket, cmd.Key)
		if err != nil {
			return storeErrorResponse(cmd, err)
		}
		return common.NewSuccessResponse(cmd.ID, common.EncodeBool(ok))
	case common.CmdTKeys:
		keys, err := s.Keys(cmd.Bucket)
		if err != nil {
			return storeErrorResponse(cmd, err)
		}
		result, err := common.EncodeKeys(keys)
		if err != nil {
			return storeErrorResponse(cmd, err)
		}
		return common.NewSuccessResponse(cmd.ID, result)
	case common.CmdTSize:
		size, err := s.Size(cmd.Bucket)
		if err != nil {
			return storeErrorResponse(cmd, err)
		}
		return common.NewSuccessResponse(cmd.ID, common.EncodeSize(size))
	default:
		return common.NewErrorResponse(cmd.ID, common.UnsupportedOperationErrorCode,
			fmt.Sprintf("RPC IStoreAdapter - Unsupported command type: %s", cmd.Type))
	}
}

// storeErrorResponse maps a store error to an error response
func storeErrorResponse(cmd *common.Command, err error) *common.Response {
	code := common.InternalServerErrorCode

	var storeErr *store.Error
	if errors.As(err, &storeErr) {
		switch storeErr.Code {
		case store.RetCInvalidOperation:
			code = common.BadRequestErrorCode
		case store.RetCUnsupportedOperation:
			code = common.UnsupportedOperationErrorCode
		}
	}

	Logger.Debugf("%s command on bucket %s failed: %v", cmd.Type, cmd.Bucket, err)
	return common.NewErrorResponse(cmd.ID, code, err.Error())
}
