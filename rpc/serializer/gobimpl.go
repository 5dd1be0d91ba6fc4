package serializer

import (
	"bytes"
	"encoding/gob"
	"github.com/ValentinKolb/dkvnode/rpc/common"
)

// NewGOBSerializer creates a new serializer using Go's binary gob format
func NewGOBSerializer() IRPCSerializer {
	return &gobSerializerImpl{}
}

// gobSerializerImpl implements the IRPCSerializer interface using gob encoding.
// Every payload is a self-contained gob stream (type info included), since
// frames may be decoded by a different decoder than the one that produced them.
type gobSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (g gobSerializerImpl) SerializeCommand(cmd common.Command) ([]byte, error) {
	return gobEncode(cmd)
}

func (g gobSerializerImpl) DeserializeCommand(b []byte, cmd *common.Command) error {
	*cmd = common.Command{}
	return gob.NewDecoder(bytes.NewReader(b)).Decode(cmd)
}

func (g gobSerializerImpl) SerializeResponse(resp common.Response) ([]byte, error) {
	return gobEncode(resp)
}

func (g gobSerializerImpl) DeserializeResponse(b []byte, resp *common.Response) error {
	*resp = common.Response{}
	return gob.NewDecoder(bytes.NewReader(b)).Decode(resp)
}

func (g gobSerializerImpl) GetName() string {
	return "gob"
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func gobEncode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
