//go:build !unix && !windows

package willow3d

import (
	"errors"
	"fmt"
)

func writeFD(fd int, p []byte) (int, error) {
	return 0, fmt.Errorf("write to FD=%d: %w", fd, errors.ErrUnsupported)
}
