package proxypool

import (
	"net"
	"testing"
	"time"

	"github.com/kofany/enemy/pkg/proxypool/perrors"
)

func TestReadExactTimed_Timeout(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	buf := make([]byte, 4)
	err := readExactTimed(client, buf, 50*time.Millisecond)
	if err == nil {
		t.Fatal("expected a timeout error, got nil")
	}
	if !perrors.IsTimeout(err) {
		t.Errorf("IsTimeout(%v) = false, want true", err)
	}
}

func TestReadExactTimed_PeerClosed(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	server.Close()
	buf := make([]byte, 4)
	err := readExactTimed(client, buf, 2*time.Second)
	if err == nil {
		t.Fatal("expected a peer-closed error, got nil")
	}
}

func TestWriteAllTimed_FullTransfer(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	payload := []byte("hello")
	done := make(chan error, 1)
	go func() {
		done <- writeAllTimed(client, payload, 2*time.Second)
	}()

	got := make([]byte, len(payload))
	if err := readExactTimed(server, got, 2*time.Second); err != nil {
		t.Fatalf("readExactTimed: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("got %q, want %q", got, payload)
	}
	if err := <-done; err != nil {
		t.Errorf("writeAllTimed error: %v", err)
	}
}
