package serializer

import (
	"encoding/binary"
	"fmt"
	"github.com/ValentinKolb/dkvnode/rpc/common"
)

// NewBinarySerializer creates a new serializer using a custom binary format
// optimized for speed and efficiency
func NewBinarySerializer() IRPCSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IRPCSerializer using a custom binary format.
//
// Command layout:  [type:1][flags:1][id?][bucket?][key?][value?][meta?]
// Response layout: [flags:1][correlationID?][result?][code:4 + message?]
//
// Strings and byte slices are written as [len:4][bytes] and only if the
// corresponding flag is set.
type binarySerializerImpl struct {
}

// Bit flags to indicate which optional command fields are present
const (
	cmdHasID     byte = 1 << 0
	cmdHasBucket byte = 1 << 1
	cmdHasKey    byte = 1 << 2
	cmdHasValue  byte = 1 << 3
	cmdHasMeta   byte = 1 << 4
)

// Bit flags to indicate which optional response fields are present
const (
	respHasCorrelationID byte = 1 << 0
	respIsOk             byte = 1 << 1
	respHasResult        byte = 1 << 2
	respHasError         byte = 1 << 3
)

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) SerializeCommand(cmd common.Command) ([]byte, error) {
	// Calculate total size needed
	size := 2
	var flags byte = 0
	if cmd.ID != "" {
		flags |= cmdHasID
		size += 4 + len(cmd.ID)
	}
	if cmd.Bucket != "" {
		flags |= cmdHasBucket
		size += 4 + len(cmd.Bucket)
	}
	if cmd.Key != "" {
		flags |= cmdHasKey
		size += 4 + len(cmd.Key)
	}
	if cmd.Value != nil {
		flags |= cmdHasValue
		size += 4 + len(cmd.Value)
	}
	if cmd.Meta != nil {
		flags |= cmdHasMeta
		size += 4 + len(cmd.Meta)
	}

	result := make([]byte, size)
	result[0] = byte(cmd.Type)
	result[1] = flags

	// Set position for writing
	pos := 2
	if flags&cmdHasID != 0 {
		pos = putBytes(result, pos, []byte(cmd.ID))
	}
	if flags&cmdHasBucket != 0 {
		pos = putBytes(result, pos, []byte(cmd.Bucket))
	}
	if flags&cmdHasKey != 0 {
		pos = putBytes(result, pos, []byte(cmd.Key))
	}
	if flags&cmdHasValue != 0 {
		pos = putBytes(result, pos, cmd.Value)
	}
	if flags&cmdHasMeta != 0 {
		putBytes(result, pos, cmd.Meta)
	}

	return result, nil
}

func (b binarySerializerImpl) DeserializeCommand(data []byte, cmd *common.Command) error {
	// Check minimum size (Type + flags)
	if len(data) < 2 {
		return fmt.Errorf("data too short for command header")
	}

	*cmd = common.Command{Type: common.CommandType(data[0])}
	flags := data[1]
	pos := 2

	var err error
	var field []byte

	if flags&cmdHasID != 0 {
		if field, pos, err = getBytes(data, pos, "id"); err != nil {
			return err
		}
		cmd.ID = string(field)
	}
	if flags&cmdHasBucket != 0 {
		if field, pos, err = getBytes(data, pos, "bucket"); err != nil {
			return err
		}
		cmd.Bucket = string(field)
	}
	if flags&cmdHasKey != 0 {
		if field, pos, err = getBytes(data, pos, "key"); err != nil {
			return err
		}
		cmd.Key = string(field)
	}
	if flags&cmdHasValue != 0 {
		if field, pos, err = getBytes(data, pos, "value"); err != nil {
			return err
		}
		cmd.Value = copyBytes(field)
	}
	if flags&cmdHasMeta != 0 {
		if field, _, err = getBytes(data, pos, "meta"); err != nil {
			return err
		}
		cmd.Meta = copyBytes(field)
	}

	return nil
}

func (b binarySerializerImpl) SerializeResponse(resp common.Response) ([]byte, error) {
	size := 1
	var flags byte = 0
	if resp.CorrelationID != "" {
		flags |= respHasCorrelationID
		size += 4 + len(resp.CorrelationID)
	}
	if resp.Ok {
		flags |= respIsOk
	}
	if resp.Result != nil {
		flags |= respHasResult
		size += 4 + len(resp.Result)
	}
	if resp.Error != nil {
		flags |= respHasError
		size += 4 + 4 + len(resp.Error.Message)
	}

	result := make([]byte, size)
	result[0] = flags

	pos := 1
	if flags&respHasCorrelationID != 0 {
		pos = putBytes(result, pos, []byte(resp.CorrelationID))
	}
	if flags&respHasResult != 0 {
		pos = putBytes(result, pos, resp.Result)
	}
	if flags&respHasError != 0 {
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(int32(resp.Error.Code)))
		pos += 4
		putBytes(result, pos, []byte(resp.Error.Message))
	}

	return result, nil
}

func (b binarySerializerImpl) DeserializeResponse(data []byte, resp *common.Response) error {
	if len(data) < 1 {
		return fmt.Errorf("data too short for response header")
	}

	*resp = common.Response{}
	flags := data[0]
	pos := 1

	var err error
	var field []byte

	if flags&respHasCorrelationID != 0 {
		if field, pos, err = getBytes(data, pos, "correlation id"); err != nil {
			return err
		}
		resp.CorrelationID = string(field)
	}

	resp.Ok = flags&respIsOk != 0

	if flags&respHasResult != 0 {
		if field, pos, err = getBytes(data, pos, "result"); err != nil {
			return err
		}
		resp.Result = copyBytes(field)
	}
	if flags&respHasError != 0 {
		if pos+4 > len(data) {
			return fmt.Errorf("data too short for error code")
		}
		code := int(int32(binary.BigEndian.Uint32(data[pos : pos+4])))
		pos += 4
		if field, _, err = getBytes(data, pos, "error message"); err != nil {
			return err
		}
		resp.Error = &common.ErrorMessage{Code: code, Message: string(field)}
	}

	return nil
}

func (b binarySerializerImpl) GetName() string {
	return "binary"
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// putBytes writes [len:4][field] at pos and returns the position after it
func putBytes(dst []byte, pos int, field []byte) int {
	binary.BigEndian.PutUint32(dst[pos:pos+4], uint32(len(field)))
	pos += 4
	copy(dst[pos:pos+len(field)], field)
	return pos + len(field)
}

// getBytes reads a [len:4][field] at pos. The returned slice aliases data.
func getBytes(data []byte, pos int, name string) ([]byte, int, error) {
	if pos+4 > len(data) {
		return nil, pos, fmt.Errorf("data too short for %s length", name)
	}
	n := int(binary.BigEndian.Uint32(data[pos : pos+4]))
	pos += 4
	if n < 0 || pos+n > len(data) {
		return nil, pos, fmt.Errorf("data too short for %s data", name)
	}
	return data[pos : pos+n], pos + n, nil
}

// copyBytes copies a field out of the (reused) read buffer, an empty field
// becomes an empty, non nil slice
func copyBytes(field []byte) []byte {
	out := make([]byte, len(field))
	copy(out, field)
	return out
}
