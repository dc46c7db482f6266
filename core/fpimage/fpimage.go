// Package fpimage renders fingerprints as bitmaps, one pixel per feature bit.
package fpimage

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math/bits"

	"github.com/huangsam/fpstats/schema"
)

// PanelWidth is the width of a single fingerprint panel, one column per bit.
const PanelWidth = 32

// SeparatorWidth is the gap between diff panels.
const SeparatorWidth = 2

// Colors used by the renderer.
var (
	BitSet     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	BitClear   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	Background = color.RGBA{R: 0xC5, G: 0xC5, B: 0xC5, A: 255}
)

// Render draws fp as a PanelWidth x len(fp) bitmap. Row i is frame i and
// column j is white when bit j of that frame is set.
func Render(fp schema.Fingerprint) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, PanelWidth, len(fp)))
	for row, frame := range fp {
		for col := range PanelWidth {
			px := BitClear
			if frame&(1<<col) != 0 {
				px = BitSet
			}
			img.SetRGBA(col, row, px)
		}
	}
	return img
}

// cursors returns the read positions into fp2 and fp1 for the given alignment.
// c1 is also the vertical offset of the first panel and c2 of the second.
func cursors(offset int) (c1, c2 int) {
	if offset > 0 {
		return offset, 0
	}
	return 0, -offset
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// XOR returns the frame-wise difference of the overlapping region of fp1 and
// fp2 once fp2 is shifted by offset. An empty result means the inputs do not overlap.
func XOR(fp1, fp2 schema.Fingerprint, offset int) schema.Fingerprint {
	c1, c2 := cursors(offset)
	n := min(len(fp1), len(fp2)) - abs(offset)
	if n <= 0 {
		return schema.Fingerprint{}
	}
	diff := make(schema.Fingerprint, n)
	for i := range n {
		// Bounds hold because c1+c2 == |offset| and n <= min(len) - |offset|.
		diff[i] = fp1[i+c2] ^ fp2[i+c1]
	}
	return diff
}

// BitErrorRate returns the share of differing bits in the aligned region, in [0, 1].
// It is 0 when the fingerprints do not overlap.
func BitErrorRate(fp1, fp2 schema.Fingerprint, offset int) float64 {
	diff := XOR(fp1, fp2, offset)
	if len(diff) == 0 {
		return 0
	}
	var errs int
	for _, v := range diff {
		errs += bits.OnesCount32(v)
	}
	return float64(errs) / float64(len(diff)*PanelWidth)
}

// DiffBounds returns the canvas size needed by PaintDiff.
func DiffBounds(len1, len2, offset int) image.Rectangle {
	width := 3*PanelWidth + 2*SeparatorWidth
	height := max(len1, len2) + abs(offset)
	return image.Rect(0, 0, width, height)
}

// RenderDiff renders fp1, fp2 and their XOR side by side on a new canvas.
func RenderDiff(fp1, fp2 schema.Fingerprint, offset int) *image.RGBA {
	img := image.NewRGBA(DiffBounds(len(fp1), len(fp2), offset))
	PaintDiff(img, fp1, fp2, offset)
	return img
}

// PaintDiff composites the three panels onto dst, which should be at least
// DiffBounds in size. Panels are staggered vertically so the overlapping
// frames line up: fp1 at c1, fp2 at c2 and the difference at |offset|.
func PaintDiff(dst draw.Image, fp1, fp2 schema.Fingerprint, offset int) {
	c1, c2 := cursors(offset)
	origin := dst.Bounds().Min

	draw.Draw(dst, dst.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)

	panels := []struct {
		img *image.RGBA
		y   int
	}{
		{Render(fp1), c1},
		{Render(fp2), c2},
		{Render(XOR(fp1, fp2, offset)), abs(offset)},
	}

	x := 0
	for _, p := range panels {
		at := origin.Add(image.Pt(x, p.y))
		draw.Draw(dst, p.img.Bounds().Add(at), p.img, image.Point{}, draw.Src)
		x += PanelWidth + SeparatorWidth
	}
}

// EncodePNG writes img to w as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
