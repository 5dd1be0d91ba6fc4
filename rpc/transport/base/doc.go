// Package base provides the protocol independent core of the node-to-node
// transport. The tcp and unix packages plug in connectors for dialing,
// listening and socket tuning, everything else lives here.
//
// Wire format:
//
//	Every frame, in both directions, is a 4 byte big endian length followed by
//	that many payload bytes. A frame announcing more than the configured max
//	frame length is a protocol violation (ErrFrameTooLarge) and the connection
//	is closed, since the stream can no longer be resynchronized.
//
// Key Components:
//
//   - IClientConnector/IServerConnector: Interfaces for protocol-specific operations
//     that allow extending the base transport with different network protocols.
//
//   - clientTransport: One persistent connection to a remote node. Connect and
//     Close are serialized by a lifecycle mutex; every connection gets exactly one
//     reader goroutine that hands inbound frames to the receive handler. Any
//     teardown (remote close, read or write error, protocol violation, local
//     Close) leaves the transport disconnected and fires the close handler once,
//     so the owner can fail pending requests and reconnect lazily.
//
//   - serverTransport: Accepts connections and dispatches every frame to the
//     handler on a bounded per-connection worker pool. Replies are written under
//     a per-connection mutex and may be sent out of order.
//
// Performance Optimizations:
//
//   - Buffer Pooling: The server uses a sync.Pool to reuse read buffers, and the
//     client keeps one growing read buffer per connection.
//
//   - Frame Batching: Frames are written with net.Buffers, combining header and
//     payload into a single write operation.
//
// Thread Safety:
//
//	All public methods are thread-safe. IsConnected and IsUsable are lock free.
package base
