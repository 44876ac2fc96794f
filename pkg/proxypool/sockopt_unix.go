//go:build unix

package proxypool

import (
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// readSocketError reads SO_ERROR off conn's underlying file descriptor via
// syscall.RawConn.Control, the same pattern firestack's protect.go uses to
// reach the raw fd under a net.Conn. A nonzero value means the kernel
// completed an asynchronous connect with an error the caller hasn't seen
// yet — the errno-accurate ConnectRefused case in SPEC_FULL §4.4 step 3.
func readSocketError(conn net.Conn) int {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return 0
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return 0
	}

	var errno int
	_ = raw.Control(func(fd uintptr) {
		errno, _ = unix.GetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_ERROR)
	})
	return errno
}

// errnoError turns the raw SO_ERROR value into a Go error.
func errnoError(errno int) error {
	if errno == 0 {
		return nil
	}
	return syscall.Errno(errno)
}
