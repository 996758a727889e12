//go:build unix

package willow3d

import (
	"bytes"
	"errors"
	"io"
	"os"
	"testing"

	"golang.org/x/sys/unix"
)

func TestFDWriterWritesToPipe(t *testing.T) {
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		t.Fatal(err)
	}
	r := os.NewFile(uintptr(fds[0]), "r")
	defer r.Close()
	defer unix.Close(fds[1])

	w := fdWriter{fd: fds[1]}
	payload := bytes.Repeat([]byte{1, 2, 3, 4}, 16)
	n, err := w.Write(payload)
	if err != nil || n != len(payload) {
		t.Fatalf("Write = %d, %v", n, err)
	}

	got := make([]byte, len(payload))
	if _, err := io.ReadFull(r, got); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Error("pipe contents differ from the written frame")
	}
}

func TestFDWriterBadDescriptor(t *testing.T) {
	w := fdWriter{fd: -1}
	n, err := w.Write([]byte{1, 2, 3, 4})
	if err == nil {
		t.Fatal("expected error for an invalid descriptor")
	}
	if n != 0 {
		t.Errorf("n = %d, want 0", n)
	}
	if !errors.Is(err, unix.EBADF) {
		t.Errorf("err = %v, want EBADF", err)
	}
}

func TestCameraSetPipeStreamsFrames(t *testing.T) {
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		t.Fatal(err)
	}
	r := os.NewFile(uintptr(fds[0]), "r")
	defer r.Close()
	defer unix.Close(fds[1])

	var log []string
	g := newFakeGPU()
	g.fill = func(_ Framebuffer, dst []byte) {
		for i := range dst {
			dst[i] = byte(i)
		}
	}
	cam := newTestCamera(newRecordNode("leaf", &log))
	cam.SetPipe(fds[1], 4, 4)
	ctx := &Context{GPU: g}
	if err := cam.Init(ctx); err != nil {
		t.Fatal(err)
	}
	defer cam.Uninit(ctx)

	for i := 0; i < 2; i++ {
		cam.Update(float64(i), IdentityTransforms())
		cam.Draw(ctx)
	}
	if err := cam.LastWriteError(); err != nil {
		t.Fatal(err)
	}

	got := make([]byte, 2*64)
	if _, err := io.ReadFull(r, got); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		frame := got[i*64 : (i+1)*64]
		if frame[0] != 0 || frame[63] != 63 {
			t.Errorf("frame %d = %v", i, frame)
		}
	}
}

func TestDestName(t *testing.T) {
	if got := destName(fdWriter{fd: 7}); got != "FD=7" {
		t.Errorf("destName(fd 7) = %q", got)
	}
	if got := destName(&recordWriter{}); got != "*willow3d.recordWriter" {
		t.Errorf("destName(writer) = %q", got)
	}
}
