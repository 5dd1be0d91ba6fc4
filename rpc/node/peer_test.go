package node

import (
	"encoding/binary"
	"github.com/ValentinKolb/dkvnode/rpc/common"
	"github.com/ValentinKolb/dkvnode/rpc/serializer"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"testing"
)

// peerHandler answers one command, nil means no reply
type peerHandler func(cmd common.Command) *common.Response

// testPeer is a minimal remote node speaking the frame protocol directly on a
// socket, so tests can control every byte it sends
type testPeer struct {
	ln        net.Listener
	s         serializer.IRPCSerializer
	handler   peerHandler
	duplicate bool // send every reply twice

	accepted atomic.Int32
	mu       sync.Mutex
	conns    map[net.Conn]*sync.Mutex
	wg       sync.WaitGroup
}

func startPeer(t *testing.T, handler peerHandler) *testPeer {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}

	p := &testPeer{
		ln:      ln,
		s:       serializer.NewBinarySerializer(),
		handler: handler,
		conns:   make(map[net.Conn]*sync.Mutex),
	}

	p.wg.Add(1)
	go p.serve()
	t.Cleanup(p.close)
	return p
}

func (p *testPeer) configuration(name string) common.ServerConfiguration {
	addr := p.ln.Addr().(*net.TCPAddr)
	return common.ServerConfiguration{Name: name, Host: "127.0.0.1", Port: addr.Port}
}

func (p *testPeer) serve() {
	defer p.wg.Done()
	for {
		conn, err := p.ln.Accept()
		if err != nil {
			return
		}
		p.accepted.Add(1)

		writeMu := &sync.Mutex{}
		p.mu.Lock()
		p.conns[conn] = writeMu
		p.mu.Unlock()

		p.wg.Add(1)
		go p.handle(conn, writeMu)
	}
}

func (p *testPeer) handle(conn net.Conn, writeMu *sync.Mutex) {
	defer p.wg.Done()
	defer func() {
		p.mu.Lock()
		delete(p.conns, conn)
		p.mu.Unlock()
		_ = conn.Close()
	}()

	for {
		payload, err := readTestFrame(conn)
		if err != nil {
			return
		}

		var cmd common.Command
		if err := p.s.DeserializeCommand(payload, &cmd); err != nil {
			return
		}

		// answer concurrently so replies can overtake each other
		go func() {
			resp := p.handler(cmd)
			if resp == nil {
				return
			}
			data, err := p.s.SerializeResponse(*resp)
			if err != nil {
				return
			}
			writeMu.Lock()
			defer writeMu.Unlock()
			_ = writeTestFrame(conn, data)
			if p.duplicate {
				_ = writeTestFrame(conn, data)
			}
		}()
	}
}

// broadcast writes a raw frame to every open connection
func (p *testPeer) broadcast(payload []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for conn, writeMu := range p.conns {
		writeMu.Lock()
		_ = writeTestFrame(conn, payload)
		writeMu.Unlock()
	}
}

// broadcastHeader writes only a frame header announcing length bytes
func (p *testPeer) broadcastHeader(length uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for conn, writeMu := range p.conns {
		var header [4]byte
		binary.BigEndian.PutUint32(header[:], length)
		writeMu.Lock()
		_, _ = conn.Write(header[:])
		writeMu.Unlock()
	}
}

// dropConnections closes every open connection from the peer side
func (p *testPeer) dropConnections() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for conn := range p.conns {
		_ = conn.Close()
	}
}

func (p *testPeer) close() {
	_ = p.ln.Close()
	p.dropConnections()
	p.wg.Wait()
}

func writeTestFrame(w io.Writer, payload []byte) error {
	frame := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(frame, uint32(len(payload)))
	copy(frame[4:], payload)
	_, err := w.Write(frame)
	return err
}

func readTestFrame(r io.Reader) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	payload := make([]byte, binary.BigEndian.Uint32(header[:]))
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// echoResult answers every command with its key as result
func echoResult(cmd common.Command) *common.Response {
	return common.NewSuccessResponse(cmd.ID, []byte(cmd.Key))
}

// closedPortConfiguration returns a configuration no one listens on
func closedPortConfiguration(t *testing.T, name string) common.ServerConfiguration {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	_ = ln.Close()
	return common.ServerConfiguration{Name: name, Host: "127.0.0.1", Port: port}
}
