package serializer

import (
	"fmt"
	"github.com/ValentinKolb/dkvnode/rpc/common"
)

// IRPCSerializer is the interface for all payload serializers. The transport
// only frames opaque bytes, the serializer turns them into Commands (server
// side) and Responses (client side).
type IRPCSerializer interface {
	// SerializeCommand serializes a Command into a byte array
	SerializeCommand(cmd common.Command) ([]byte, error)
	// DeserializeCommand deserializes a byte array into the given Command
	DeserializeCommand(b []byte, cmd *common.Command) error
	// SerializeResponse serializes a Response into a byte array
	SerializeResponse(resp common.Response) ([]byte, error)
	// DeserializeResponse deserializes a byte array into the given Response
	DeserializeResponse(b []byte, resp *common.Response) error
	// GetName returns the name of the format (e.g. "binary", "json")
	GetName() string
}

// New creates a serializer by name (binary, json, gob)
func New(name string) (IRPCSerializer, error) {
	switch name {
	case "binary":
		return NewBinarySerializer(), nil
	case "json":
		return NewJSONSerializer(), nil
	case "gob":
		return NewGOBSerializer(), nil
	default:
		return nil, fmt.Errorf("invalid serializer %s", name)
	}
}
