package willow3d

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"math/bits"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
)

// Frame hashing reduces a captured frame to a small perceptual fingerprint
// so that rendering can be compared against stored references with a
// tolerance. The frame is scaled down to 9x9 and, for each component, every
// pixel of the top-left 8x8 block contributes two bits: whether it is darker
// than its right neighbor and whether it is darker than the one below.

const (
	hashSize = 8
	hashBits = hashSize * hashSize * 2
)

// ComponentHash is the 128-bit gradient hash of one color component.
type ComponentHash struct {
	Hi, Lo uint64
}

func (h ComponentHash) push(b uint64) ComponentHash {
	return ComponentHash{Hi: h.Hi<<2 | h.Lo>>62, Lo: h.Lo<<2 | b}
}

func (h ComponentHash) xor(o ComponentHash) ComponentHash {
	return ComponentHash{Hi: h.Hi ^ o.Hi, Lo: h.Lo ^ o.Lo}
}

func (h ComponentHash) onesCount() int {
	return bits.OnesCount64(h.Hi) + bits.OnesCount64(h.Lo)
}

// pair returns the two bits contributed by the k-th pixel in scan order.
func (h ComponentHash) pair(k int) uint64 {
	shift := (hashSize*hashSize - 1 - k) * 2
	if shift >= 64 {
		return h.Hi >> (shift - 64) & 0b11
	}
	return h.Lo >> shift & 0b11
}

// FrameHash holds the R, G, B and A component hashes of one frame.
type FrameHash [4]ComponentHash

// HashFrame hashes a w x h RGBA8 frame. pixels are hashed in the row order
// they are given in.
func HashFrame(pixels []byte, w, h int) FrameHash {
	src := &image.RGBA{Pix: pixels[:4*w*h], Stride: 4 * w, Rect: image.Rect(0, 0, w, h)}
	const side = hashSize + 1
	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	var fh FrameHash
	for c := 0; c < 4; c++ {
		var ch ComponentHash
		for y := 0; y < hashSize; y++ {
			for x := 0; x < hashSize; x++ {
				ref := dst.Pix[y*dst.Stride+x*4+c]
				right := dst.Pix[y*dst.Stride+(x+1)*4+c]
				below := dst.Pix[(y+1)*dst.Stride+x*4+c]
				var b uint64
				if ref < right {
					b |= 0b10
				}
				if ref < below {
					b |= 0b01
				}
				ch = ch.push(b)
			}
		}
		fh[c] = ch
	}
	return fh
}

// String formats the hash as four space separated 32-digit uppercase hex
// numbers, the reference file line format.
func (fh FrameHash) String() string {
	parts := make([]string, 4)
	for i, ch := range fh {
		parts[i] = fmt.Sprintf("%016X%016X", ch.Hi, ch.Lo)
	}
	return strings.Join(parts, " ")
}

// ParseFrameHash parses a line produced by FrameHash.String.
func ParseFrameHash(line string) (FrameHash, error) {
	var fh FrameHash
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return fh, fmt.Errorf("willow3d: frame hash: want 4 components, got %d", len(fields))
	}
	for i, f := range fields {
		if len(f) > 32 {
			return fh, fmt.Errorf("willow3d: frame hash component %d: %d hex digits", i, len(f))
		}
		f = strings.Repeat("0", 32-len(f)) + f
		hi, err := strconv.ParseUint(f[:16], 16, 64)
		if err != nil {
			return fh, fmt.Errorf("willow3d: frame hash component %d: %w", i, err)
		}
		lo, err := strconv.ParseUint(f[16:], 16, 64)
		if err != nil {
			return fh, fmt.Errorf("willow3d: frame hash component %d: %w", i, err)
		}
		fh[i] = ComponentHash{Hi: hi, Lo: lo}
	}
	return fh, nil
}

// ReadFrameHashes reads one hash per non-empty line.
func ReadFrameHashes(r io.Reader) ([]FrameHash, error) {
	var out []FrameHash
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fh, err := ParseFrameHash(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", len(out)+1, err)
		}
		out = append(out, fh)
	}
	return out, sc.Err()
}

// WriteFrameHashes writes one hash per line.
func WriteFrameHashes(w io.Writer, hashes []FrameHash) error {
	for _, fh := range hashes {
		if _, err := fmt.Fprintln(w, fh.String()); err != nil {
			return err
		}
	}
	return nil
}

const hashComponents = "RGBA"

// HashMismatch describes a frame component whose hash differs from its
// reference by more than the tolerance.
type HashMismatch struct {
	Frame     int
	Component byte // 'R', 'G', 'B' or 'A'
	Diff      int  // percentage of differing bits
	Tolerance int
	diff      ComponentHash
}

func (m HashMismatch) Error() string {
	return fmt.Sprintf("frame #%d component %c: diff too high (%d%% > %d%%)",
		m.Frame, m.Component, m.Diff, m.Tolerance)
}

// Map renders the differing bits as an 8x8 grid: '.' identical, 'v' the
// vertical gradient differs, '>' the horizontal one, '+' both.
func (m HashMismatch) Map() string {
	const chars = ".v>+"
	var b strings.Builder
	for y := 0; y < hashSize; y++ {
		for x := 0; x < hashSize; x++ {
			b.WriteByte(' ')
			b.WriteByte(chars[m.diff.pair(y*hashSize+x)])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// CompareFrameHashes compares two hash sequences frame by frame and returns
// every component whose share of differing bits exceeds tolerance percent.
func CompareFrameHashes(ref, out []FrameHash, tolerance int) ([]HashMismatch, error) {
	if len(ref) != len(out) {
		return nil, fmt.Errorf("willow3d: compare frame hashes: %d reference frames, %d output frames", len(ref), len(out))
	}
	var mismatches []HashMismatch
	for f := range ref {
		for c := 0; c < 4; c++ {
			d := ref[f][c].xor(out[f][c])
			pct := d.onesCount() * 100 / hashBits
			if pct > tolerance {
				mismatches = append(mismatches, HashMismatch{
					Frame:     f,
					Component: hashComponents[c],
					Diff:      pct,
					Tolerance: tolerance,
					diff:      d,
				})
			}
		}
	}
	return mismatches, nil
}
