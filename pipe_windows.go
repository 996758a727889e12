//go:build windows

package willow3d

import "golang.org/x/sys/windows"

func writeFD(fd int, p []byte) (int, error) {
	return windows.Write(windows.Handle(fd), p)
}
