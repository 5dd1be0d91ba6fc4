package base

import (
	"github.com/ValentinKolb/dkvnode/rpc/common"
	"net"
	"sync"
	"testing"
	"time"
)

// pipeConnector hands out in-memory connections whose far end never reads
type pipeConnector struct {
	mu    sync.Mutex
	peers []net.Conn
}

func (p *pipeConnector) Connect(string, time.Duration) (net.Conn, error) {
	client, server := net.Pipe()
	p.mu.Lock()
	p.peers = append(p.peers, server)
	p.mu.Unlock()
	return client, nil
}

func (p *pipeConnector) GetName() string {
	return "pipe"
}

func (p *pipeConnector) UpgradeConnection(net.Conn, common.ClientConfig) error {
	return nil
}

func (p *pipeConnector) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.peers {
		_ = c.Close()
	}
}

func TestConnectWaitsForCloseHandlerOfFailedWrite(t *testing.T) {
	connector := &pipeConnector{}
	defer connector.close()

	tr := NewBaseClientTransport(connector)
	config := common.ClientConfig{Endpoint: "pipe", MaxFrameLength: 1024, TimeoutMillis: 50}

	var mu sync.Mutex
	var events []string
	record := func(event string) {
		mu.Lock()
		events = append(events, event)
		mu.Unlock()
	}

	closeStarted := make(chan struct{}, 1)
	release := make(chan struct{})
	tr.OnClose(func(error) {
		select {
		case closeStarted <- struct{}{}:
		default:
		}
		<-release
		record("close")
	})

	if err := tr.Connect(config); err != nil {
		t.Fatalf("connect failed: %v", err)
	}

	// nobody reads the far end, the write runs into its deadline and tears
	// the connection down from the writing goroutine
	writeErr := make(chan error, 1)
	go func() { writeErr <- tr.Write([]byte("payload")) }()

	select {
	case <-closeStarted:
	case <-time.After(2 * time.Second):
		t.Fatal("write did not tear down the connection")
	}
	if tr.IsConnected() {
		t.Fatal("expected transport to be disconnected after failed write")
	}

	connectDone := make(chan error, 1)
	go func() {
		err := tr.Connect(config)
		record("connect")
		connectDone <- err
	}()

	select {
	case <-connectDone:
		t.Fatal("connect returned while the previous close handler was still running")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)

	select {
	case err := <-connectDone:
		if err != nil {
			t.Fatalf("reconnect failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("connect did not return after the close handler finished")
	}
	if err := <-writeErr; err == nil {
		t.Error("expected write to fail")
	}

	mu.Lock()
	got := append([]string(nil), events...)
	mu.Unlock()
	if len(got) != 2 || got[0] != "close" || got[1] != "connect" {
		t.Errorf("expected [close connect], got %v", got)
	}
	if !tr.IsConnected() {
		t.Error("expected transport to be connected")
	}

	if err := tr.Close(); err != nil {
		t.Errorf("close failed: %v", err)
	}
}

func TestWriteWithoutConnection(t *testing.T) {
	tr := NewBaseClientTransport(&pipeConnector{})
	if err := tr.Write([]byte("x")); err != ErrNotConnected {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
	if err := tr.Close(); err != nil {
		t.Errorf("close of an unconnected transport failed: %v", err)
	}
}
