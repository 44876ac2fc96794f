package proxypool

import (
	"bytes"
	"io"
	"net"
	"testing"
	"time"
)

func TestSocks4Handshake_ByteExactFixture(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	want := []byte{0x04, 0x01, 0x1A, 0x0B, 198, 51, 100, 4, 'u', 0x00}

	errCh := make(chan error, 1)
	go func() {
		req := make([]byte, len(want))
		if _, err := io.ReadFull(server, req); err != nil {
			errCh <- err
			return
		}
		if !bytes.Equal(req, want) {
			errCh <- errMismatch("socks4 request", want, req)
			return
		}
		_, err := server.Write([]byte{0x00, 0x5a, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00})
		errCh <- err
	}()

	if err := socks4Handshake(client, "198.51.100.4", 6667, "u", 2*time.Second); err != nil {
		t.Fatalf("socks4Handshake() error = %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("mock server error: %v", err)
	}
}

func TestSocks4Handshake_Rejected(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go func() {
		buf := make([]byte, 10)
		io.ReadFull(server, buf)
		server.Write([]byte{0x00, 0x5b, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00})
	}()

	if err := socks4Handshake(client, "198.51.100.4", 6667, "u", 2*time.Second); err == nil {
		t.Fatal("expected a rejection error, got nil")
	}
}

func TestSocks4Handshake_NoUserid(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	want := []byte{0x04, 0x01, 0x1A, 0x0B, 198, 51, 100, 4, 0x00}

	errCh := make(chan error, 1)
	go func() {
		req := make([]byte, len(want))
		if _, err := io.ReadFull(server, req); err != nil {
			errCh <- err
			return
		}
		if !bytes.Equal(req, want) {
			errCh <- errMismatch("socks4 request (no userid)", want, req)
			return
		}
		_, err := server.Write([]byte{0x00, 0x5a, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00})
		errCh <- err
	}()

	if err := socks4Handshake(client, "198.51.100.4", 6667, "", 2*time.Second); err != nil {
		t.Fatalf("socks4Handshake() error = %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("mock server error: %v", err)
	}
}
