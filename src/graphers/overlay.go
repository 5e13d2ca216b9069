package graphers

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/golang/freetype/truetype"
	chart "github.com/wcharczuk/go-chart/v2"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// toRGBA copies img into a mutable RGBA canvas for overlay drawing.
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	return rgba
}

// drawImageText draws text onto dst at (x, y baseline) using a truetype face.
func drawImageText(dst *image.RGBA, f *truetype.Font, size float64, col color.Color, text string, x, y int) {
	face := truetype.NewFace(f, &truetype.Options{Size: size})
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: face, Dot: fixed.P(x, y)}
	d.DrawString(text)
}

func measureImageText(f *truetype.Font, size float64, text string) int {
	face := truetype.NewFace(f, &truetype.Options{Size: size})
	d := &font.Drawer{Face: face}
	return d.MeasureString(text).Ceil()
}

// overlayStickers draws one thumbnail per bar slot into the reserved margin
// below the plot area, in ranked bar order.
//
// Slot geometry assumes the fixed-width 10-slot layout of the top-stickers
// chart: thumbnail i is centered over slot i, exactly like the original's
// fixed "-0.5 + i" data-coordinate placement. This is approximate by design
// and shifts if the bar count or chart width changes.
// TODO: derive the slot boxes from the rendered bar geometry instead of
// recomputing them from the plot box here.
func overlayStickers(base image.Image, thumbs []image.Image, plot chart.Box, margin int) image.Image {
	rgba := toRGBA(base)
	n := len(thumbs)
	if n == 0 || plot.Width() <= 0 {
		return rgba
	}
	slotW := float64(plot.Width()) / float64(n)
	maxSide := int(slotW) - 6
	if maxSide > margin-8 {
		maxSide = margin - 8
	}
	if maxSide < 4 {
		return rgba
	}
	for i, thumb := range thumbs {
		if thumb == nil {
			continue
		}
		sb := thumb.Bounds()
		if sb.Dx() == 0 || sb.Dy() == 0 {
			continue
		}
		// Fit into maxSide x maxSide preserving aspect.
		tw, th := maxSide, maxSide
		if sb.Dx() > sb.Dy() {
			th = maxSide * sb.Dy() / sb.Dx()
		} else {
			tw = maxSide * sb.Dx() / sb.Dy()
		}
		cx := plot.Left + int(slotW*float64(i)+slotW/2)
		x0 := cx - tw/2
		y0 := plot.Bottom + 6
		dst := image.Rect(x0, y0, x0+tw, y0+th)
		xdraw.ApproxBiLinear.Scale(rgba, dst, thumb, sb, draw.Over, nil)
	}
	return rgba
}

// compositeGrid lays the per-sender cell images out in a rows x cols grid with
// a shared title band on top. Cells are assumed equally sized; a short final
// row is left blank.
func compositeGrid(cells []image.Image, rows, cols int, title string, f *truetype.Font) image.Image {
	if len(cells) == 0 {
		return blank(defaultChartWidth, defaultChartHeight)
	}
	cb := cells[0].Bounds()
	cw, ch := cb.Dx(), cb.Dy()
	const titleBand = 56
	w := cols * cw
	h := rows*ch + titleBand
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	if title != "" && f != nil {
		tw := measureImageText(f, 20, title)
		drawImageText(out, f, 20, color.RGBA{R: 51, G: 51, B: 51, A: 255}, title, (w-tw)/2, 36)
	}
	for i, cell := range cells {
		if i >= rows*cols {
			break
		}
		x0 := (i % cols) * cw
		y0 := titleBand + (i/cols)*ch
		draw.Draw(out, image.Rect(x0, y0, x0+cw, y0+ch), cell, cell.Bounds().Min, draw.Src)
	}
	return out
}
