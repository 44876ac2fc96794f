package proxypool

import (
	"bufio"
	"net"
	"strings"
	"testing"
	"time"
)

func TestHTTPConnectHandshake_BasicAuthHeaderExact(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	errCh := make(chan error, 1)
	go func() {
		r := bufio.NewReader(server)
		var lines []string
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				errCh <- err
				return
			}
			lines = append(lines, line)
			if line == "\r\n" {
				break
			}
		}
		found := false
		for _, l := range lines {
			if l == "Proxy-Authorization: Basic YTpi\r\n" {
				found = true
			}
		}
		if !found {
			errCh <- errMismatch("proxy-auth header", []byte("Proxy-Authorization: Basic YTpi\r\n"), []byte(strings.Join(lines, "")))
			return
		}
		_, err := server.Write([]byte("HTTP/1.1 200 OK\r\n\r\n"))
		errCh <- err
	}()

	if err := httpConnectHandshake(client, "example.org", 443, "a", "b", 2*time.Second); err != nil {
		t.Fatalf("httpConnectHandshake() error = %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("mock server error: %v", err)
	}
}

func TestHTTPConnectHandshake_Rejected(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go func() {
		r := bufio.NewReader(server)
		for {
			line, err := r.ReadString('\n')
			if err != nil || line == "\r\n" {
				break
			}
		}
		server.Write([]byte("HTTP/1.1 407 Proxy Authentication Required\r\n\r\n"))
	}()

	err := httpConnectHandshake(client, "example.org", 443, "a", "b", 2*time.Second)
	if err == nil {
		t.Fatal("expected a Rejected(407) error, got nil")
	}
}

func TestHTTPConnectHandshake_NoAuthWhenNoCredentials(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	errCh := make(chan error, 1)
	go func() {
		r := bufio.NewReader(server)
		var lines []string
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				errCh <- err
				return
			}
			lines = append(lines, line)
			if line == "\r\n" {
				break
			}
		}
		for _, l := range lines {
			if strings.Contains(l, "Proxy-Authorization") {
				errCh <- errMismatch("unexpected auth header", nil, []byte(l))
				return
			}
		}
		_, err := server.Write([]byte("HTTP/1.1 200 Connection Established\r\n\r\n"))
		errCh <- err
	}()

	if err := httpConnectHandshake(client, "example.org", 443, "", "", 2*time.Second); err != nil {
		t.Fatalf("httpConnectHandshake() error = %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("mock server error: %v", err)
	}
}
