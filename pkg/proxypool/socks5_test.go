package proxypool

import (
	"bytes"
	"io"
	"net"
	"testing"
	"time"
)

// TestSocks5Handshake_ByteExactFixture reproduces SPEC_FULL's end-to-end
// scenario: a no-auth CONNECT to example.org:6667 against a mock server,
// asserting the exact bytes written for GREET and REQUEST.
func TestSocks5Handshake_ByteExactFixture(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	wantGreet := []byte{0x05, 0x01, 0x00}
	wantRequest := []byte{0x05, 0x01, 0x00, 0x03, 0x0B, 'e', 'x', 'a', 'm', 'p', 'l', 'e', '.', 'o', 'r', 'g', 0x1A, 0x0B}

	errCh := make(chan error, 1)
	go func() {
		greet := make([]byte, len(wantGreet))
		if _, err := io.ReadFull(server, greet); err != nil {
			errCh <- err
			return
		}
		if !bytes.Equal(greet, wantGreet) {
			errCh <- errMismatch("greet", wantGreet, greet)
			return
		}
		if _, err := server.Write([]byte{0x05, 0x00}); err != nil {
			errCh <- err
			return
		}

		req := make([]byte, len(wantRequest))
		if _, err := io.ReadFull(server, req); err != nil {
			errCh <- err
			return
		}
		if !bytes.Equal(req, wantRequest) {
			errCh <- errMismatch("request", wantRequest, req)
			return
		}
		_, err := server.Write([]byte{0x05, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00})
		errCh <- err
	}()

	if err := socks5Handshake(client, "example.org", 6667, "", "", 2*time.Second); err != nil {
		t.Fatalf("socks5Handshake() error = %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("mock server error: %v", err)
	}
}

func TestSocks5Handshake_Rejected(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go func() {
		buf := make([]byte, 3)
		io.ReadFull(server, buf)
		server.Write([]byte{0x05, 0x00})
		req := make([]byte, 18)
		io.ReadFull(server, req)
		server.Write([]byte{0x05, 0x05, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00})
	}()

	err := socks5Handshake(client, "example.org", 6667, "", "", 2*time.Second)
	if err == nil {
		t.Fatal("expected a rejection error, got nil")
	}
}

func TestSocks5Handshake_NoAcceptableMethod(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go func() {
		buf := make([]byte, 3)
		io.ReadFull(server, buf)
		server.Write([]byte{0x05, 0xff})
	}()

	err := socks5Handshake(client, "example.org", 6667, "", "", 2*time.Second)
	if err == nil {
		t.Fatal("expected NoAcceptableMethod error, got nil")
	}
}

func errMismatch(what string, want, got []byte) error {
	return &mismatchError{what: what, want: want, got: got}
}

type mismatchError struct {
	what      string
	want, got []byte
}

func (e *mismatchError) Error() string {
	return e.what + " mismatch: want " + string(e.want) + " got " + string(e.got)
}
