package perrors

import (
	"errors"
	"testing"
)

func TestError_Format(t *testing.T) {
	e := NewRejected("socks5.request", "proxy.example.com:1080", 5)
	want := "[rejected] socks5.request proxy.example.com:1080: rejected with code 5"
	if got := e.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestError_Is(t *testing.T) {
	e1 := New(Timeout, "op", "p", "msg", nil)
	e2 := New(Timeout, "other-op", "other-p", "other-msg", nil)
	if !errors.Is(e1, e2) {
		t.Error("errors of the same Kind should match via Is")
	}

	e3 := New(PeerClosed, "op", "p", "msg", nil)
	if errors.Is(e1, e3) {
		t.Error("errors of different Kind should not match via Is")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	e := New(IO, "op", "p", "msg", cause)
	if !errors.Is(e, cause) {
		t.Error("Unwrap should expose the underlying cause")
	}
}

func TestGetKind(t *testing.T) {
	e := New(AuthFailed, "op", "p", "msg", nil)
	if GetKind(e) != AuthFailed {
		t.Errorf("GetKind() = %v, want AuthFailed", GetKind(e))
	}
	if GetKind(errors.New("plain")) != "" {
		t.Error("GetKind() of a plain error should be empty")
	}
}
