package serializer

import (
	"github.com/ValentinKolb/dkvnode/rpc/common"
	"testing"
)

// benchmarkCommands returns a set of commands for targeted benchmarking
func benchmarkCommands() map[string]common.Command {
	return map[string]common.Command{
		"Ping": {
			ID:   "0b8f3c1e-5d0c-4a5f-b3a4-2f1f8d7a9e61",
			Type: common.CmdTPing,
		},
		"SmallGet": {
			ID:     "0b8f3c1e-5d0c-4a5f-b3a4-2f1f8d7a9e61",
			Type:   common.CmdTGet,
			Bucket: "b",
			Key:    "k",
		},
		"SmallPut": {
			ID:     "0b8f3c1e-5d0c-4a5f-b3a4-2f1f8d7a9e61",
			Type:   common.CmdTPut,
			Bucket: "bucket",
			Key:    "key",
			Value:  []byte("v"),
		},
		"LargePut": {
			ID:     "0b8f3c1e-5d0c-4a5f-b3a4-2f1f8d7a9e61",
			Type:   common.CmdTPut,
			Bucket: "bucket",
			Key:    "key",
			Value:  make([]byte, 1024*16), // 16KB of data
		},
	}
}

// benchmarkResponses returns a set of responses for targeted benchmarking
func benchmarkResponses() map[string]common.Response {
	return map[string]common.Response{
		"Ok": {
			CorrelationID: "0b8f3c1e-5d0c-4a5f-b3a4-2f1f8d7a9e61",
			Ok:            true,
		},
		"LargeResult": {
			CorrelationID: "0b8f3c1e-5d0c-4a5f-b3a4-2f1f8d7a9e61",
			Ok:            true,
			Result:        make([]byte, 1024*16),
		},
		"Error": {
			CorrelationID: "0b8f3c1e-5d0c-4a5f-b3a4-2f1f8d7a9e61",
			Error:         &common.ErrorMessage{Code: 500, Message: "Lorem ipsum dolor sit amet, consectetur adipiscing elit."},
		},
	}
}

// BenchmarkSerializeCommand benchmarks command serialization for all implementations
func BenchmarkSerializeCommand(b *testing.B) {
	for name, factory := range testSerializers {
		for cmdName, cmd := range benchmarkCommands() {
			b.Run(name+"_"+cmdName, func(b *testing.B) {
				serializer := factory()
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					if _, err := serializer.SerializeCommand(cmd); err != nil {
						b.Fatalf("Failed to serialize: %v", err)
					}
				}
			})
		}
	}
}

// BenchmarkDeserializeResponse benchmarks response deserialization for all implementations
func BenchmarkDeserializeResponse(b *testing.B) {
	for name, factory := range testSerializers {
		for respName, resp := range benchmarkResponses() {
			b.Run(name+"_"+respName, func(b *testing.B) {
				serializer := factory()
				data, err := serializer.SerializeResponse(resp)
				if err != nil {
					b.Fatalf("Failed to serialize: %v", err)
				}
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					var result common.Response
					if err := serializer.DeserializeResponse(data, &result); err != nil {
						b.Fatalf("Failed to deserialize: %v", err)
					}
				}
			})
		}
	}
}
