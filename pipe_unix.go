//go:build unix

package willow3d

import "golang.org/x/sys/unix"

func writeFD(fd int, p []byte) (int, error) {
	return unix.Write(fd, p)
}
