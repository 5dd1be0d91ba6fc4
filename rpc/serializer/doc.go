// Package serializer provides payload serialization for the node-to-node
// command transport. It defines a common interface and several implementations
// for turning Commands and Responses into frame payloads and back.
//
// Key Components:
//
//   - IRPCSerializer: Core interface that all serializer implementations must satisfy.
//
//   - binarySerializerImpl: Custom binary format optimized for speed and space.
//     A flag byte marks which optional fields are present, so only those are
//     written. Decoded byte fields never alias the input buffer, which lets the
//     transport reuse its read buffer.
//
//   - jsonSerializerImpl: JSON encoding, useful for debugging a peer with
//     standard tools but slower and larger on the wire.
//
//   - gobSerializerImpl: Go's gob encoding. Every payload is encoded with a fresh
//     encoder so it is self-contained, which makes it the largest format.
//
// All implementations are deterministic (equal values yield equal bytes) and
// total over valid values. Both ends of a connection must use the same format.
//
// Thread Safety:
//
//	All serializer implementations are stateless and safe for concurrent use.
//
// Usage:
//
//	s := serializer.NewBinarySerializer()
//	data, err := s.SerializeCommand(*common.NewGetCommand("users", "42"))
//	// ... send data, receive reply ...
//	var resp common.Response
//	err = s.DeserializeResponse(replyData, &resp)
package serializer
