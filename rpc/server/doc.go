// Package server implements the side of a node that answers remote commands.
//
// Key Components:
//
//   - IRPCServerAdapter: executes one decoded Command and returns the Response.
//
//   - NewIStoreServerAdapter: maps the store commands (get, put, remove,
//     contains, keys, size) to store.IStore calls and answers ping with the
//     node name. Store errors become error responses with a matching code
//     (400 invalid, 404 not found, 501 unsupported, 500 otherwise).
//
//   - RPCServer: glues a server transport, a serializer and an adapter
//     together. Every response carries the id of its command as correlation id.
//     Commands that cannot be decoded or carry no id are logged and dropped,
//     since there is nothing to correlate an answer with.
//
// Usage Example:
//
//	s := server.NewRPCServer(
//	  common.ServeConfig{Name: "node-1", Endpoint: "0.0.0.0:8080", MaxFrameLength: 8 << 20},
//	  tcp.NewTCPDefaultServerTransport(),
//	  serializer.NewBinarySerializer(),
//	  mstore.NewMemoryStore(),
//	  server.NewIStoreServerAdapter("node-1"),
//	)
//	if err := s.Serve(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//	defer s.Close()
//
// Thread Safety:
//
//	Commands of one connection are handled concurrently by a bounded worker
//	pool, so the adapter and the store must be safe for concurrent use.
package server
