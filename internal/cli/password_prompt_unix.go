//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package cli

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// readSecretLine reads one line from stdin with terminal echo turned off.
func readSecretLine(stdin *os.File) ([]byte, error) {
	if stdin == nil {
		return nil, errors.New("no stdin")
	}

	fd := int(stdin.Fd())
	restoreEcho, err := disableEcho(fd)
	if err != nil {
		return nil, err
	}
	defer restoreEcho()

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}

func disableEcho(fd int) (func(), error) {
	saved, err := unix.IoctlGetTermios(fd, termiosGetRequest)
	if err != nil {
		return nil, err
	}

	muted := *saved
	muted.Lflag &^= unix.ECHO
	if err := unix.IoctlSetTermios(fd, termiosSetRequest, &muted); err != nil {
		return nil, err
	}

	return func() { _ = unix.IoctlSetTermios(fd, termiosSetRequest, saved) }, nil
}
