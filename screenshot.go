package willow3d

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Screenshot queues a labeled screenshot of the camera's next captured frame.
// The resulting PNG is written to ScreenshotDir with a timestamped filename at
// the end of the next Draw. Screenshots need a capturing camera; on a camera
// that is not capturing, the next Draw drops the queue with a diagnostic.
func (c *Camera) Screenshot(label string) {
	c.screenshotQueue = append(c.screenshotQueue, label)
}

// flushScreenshots writes the frame just captured for every queued label.
// Called at the end of Camera.Draw.
func (c *Camera) flushScreenshots() {
	if len(c.screenshotQueue) == 0 {
		return
	}
	defer func() { c.screenshotQueue = c.screenshotQueue[:0] }()

	if c.capture == nil {
		c.dropScreenshots()
		return
	}
	if err := os.MkdirAll(c.ScreenshotDir, 0o755); err != nil {
		_, _ = fmt.Fprintf(debugOutput, "[willow3d] screenshot: mkdir %s: %v\n", c.ScreenshotDir, err)
		return
	}

	img := frameImage(c.capture.Pixels(), c.capture.Width(), c.capture.Height())
	stamp := time.Now().Format("20060102_150405")

	for _, label := range c.screenshotQueue {
		path := filepath.Join(c.ScreenshotDir, fmt.Sprintf("%s_%s_f%d.png", stamp, sanitizeLabel(label), c.frames))
		if err := writePNG(path, img); err != nil {
			_, _ = fmt.Fprintf(debugOutput, "[willow3d] screenshot: %v\n", err)
		}
	}
}

// dropScreenshots discards the queue of a camera that is not capturing.
func (c *Camera) dropScreenshots() {
	if len(c.screenshotQueue) == 0 {
		return
	}
	_, _ = fmt.Fprintf(debugOutput, "[willow3d] screenshot: camera %q is not capturing, dropped %d\n",
		c.Name, len(c.screenshotQueue))
	c.screenshotQueue = c.screenshotQueue[:0]
}

// frameImage converts a bottom-up, premultiplied RGBA8 frame into a top-down
// straight-alpha image.
func frameImage(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	stride := 4 * w
	for y := 0; y < h; y++ {
		src := pixels[(h-1-y)*stride : (h-y)*stride]
		dst := img.Pix[y*img.Stride : y*img.Stride+stride]
		for i := 0; i < stride; i += 4 {
			r, g, b, a := src[i], src[i+1], src[i+2], src[i+3]
			if a > 0 && a < 255 {
				r = uint8(min(int(r)*255/int(a), 255))
				g = uint8(min(int(g)*255/int(a), 255))
				b = uint8(min(int(b)*255/int(a), 255))
			}
			dst[i] = r
			dst[i+1] = g
			dst[i+2] = b
			dst[i+3] = a
		}
	}
	return img
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
}
