package graphers

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/golang/freetype/truetype"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// mutedPalette mirrors the seaborn "muted" color cycle. Color index is keyed
// by sender order in multi-sender charts, by bar index otherwise.
var mutedPalette = []drawing.Color{
	drawing.ColorFromHex("4878d0"),
	drawing.ColorFromHex("ee854a"),
	drawing.ColorFromHex("6acc64"),
	drawing.ColorFromHex("d65f5f"),
	drawing.ColorFromHex("956cb4"),
	drawing.ColorFromHex("8c613c"),
	drawing.ColorFromHex("dc7ec0"),
	drawing.ColorFromHex("797979"),
	drawing.ColorFromHex("d5bb67"),
	drawing.ColorFromHex("82c6e2"),
}

var (
	colorBackground = drawing.Color{R: 255, G: 255, B: 255, A: 255}
	colorPlotArea   = drawing.ColorFromHex("eaeaf2") // darkgrid plot background
	colorGridLine   = drawing.Color{R: 255, G: 255, B: 255, A: 255}
	colorText       = drawing.ColorFromHex("333333")
)

func paletteColor(i int) drawing.Color {
	return mutedPalette[i%len(mutedPalette)]
}

// barGroup is one slot on the category axis with one value per series.
type barGroup struct {
	Label  string
	Values []float64
}

// barSpec describes a (possibly grouped, possibly horizontal) bar chart.
type barSpec struct {
	Title         string
	CategoryLabel string
	ValueLabel    string
	// Series names one entry per sender; empty means a single anonymous
	// series whose bars are colored individually.
	Series             []string
	Groups             []barGroup
	Horizontal         bool
	HideCategoryLabels bool
	// ValueLabels draws each bar's literal value above it (vertical charts).
	ValueLabels bool
	// ThumbMargin reserves extra category-side margin for image overlays.
	ThumbMargin   int
	Width, Height int
	Font          *truetype.Font
	// TickFont/TickFontSize override the category tick label font, used to
	// render symbol tick labels on the emoji chart.
	TickFont     *truetype.Font
	TickFontSize float64
}

// plotLayout reports where the plot area ended up, for image-space overlays.
type plotLayout struct {
	Plot chart.Box
}

const (
	defaultChartWidth  = 1100
	defaultChartHeight = 500

	titleFontSize = 14.0
	axisFontSize  = 12.0
	tickFontSize  = 11.0
)

// renderImage draws the bar chart described by spec and returns the decoded
// image plus the plot geometry. An empty group list yields a degenerate blank
// chart rather than an error.
func renderImage(spec barSpec) (image.Image, plotLayout, error) {
	w, h := spec.Width, spec.Height
	if w <= 0 {
		w = defaultChartWidth
	}
	if h <= 0 {
		h = defaultChartHeight
	}
	if len(spec.Groups) == 0 {
		return blank(w, h), plotLayout{}, nil
	}

	f := spec.Font
	if f == nil {
		var err error
		f, err = chart.GetDefaultFont()
		if err != nil {
			return nil, plotLayout{}, fmt.Errorf("default font: %w", err)
		}
	}
	tickFont := spec.TickFont
	if tickFont == nil {
		tickFont = f
	}
	catSize := spec.TickFontSize
	if catSize <= 0 {
		catSize = tickFontSize
	}

	r, err := chart.PNG(w, h)
	if err != nil {
		return nil, plotLayout{}, fmt.Errorf("chart renderer: %w", err)
	}
	r.SetDPI(chart.DefaultDPI)

	// Value scale: baseline at zero with a nice rounded max.
	vmax := 0.0
	for _, g := range spec.Groups {
		for _, v := range g.Values {
			if v > vmax {
				vmax = v
			}
		}
	}
	if vmax <= 0 {
		vmax = 1
	}
	_, hi := niceAxisBounds(0, vmax)
	ticks := niceTicks(0, hi, 6)

	// Margins. The category side must fit labels; the value side tick labels.
	maxValueTickW := 0
	for _, t := range ticks {
		if tw := textWidth(r, f, tickFontSize, t.Label); tw > maxValueTickW {
			maxValueTickW = tw
		}
	}
	maxCatW := 0
	if !spec.HideCategoryLabels {
		for _, g := range spec.Groups {
			if tw := textWidth(r, tickFont, catSize, g.Label); tw > maxCatW {
				maxCatW = tw
			}
		}
	}
	legendW := 0
	if len(spec.Series) > 0 {
		for _, s := range spec.Series {
			if lw := textWidth(r, f, tickFontSize, s) + 30; lw > legendW {
				legendW = lw
			}
		}
		if legendW < 80 {
			legendW = 80
		}
	}

	top := 16
	if spec.Title != "" {
		top = 34
	}
	var left, bottom int
	if spec.Horizontal {
		left = maxCatW + 12
		bottom = 22
	} else {
		left = maxValueTickW + 12
		bottom = 22
		if spec.ThumbMargin > 0 {
			bottom += spec.ThumbMargin
		}
	}
	if spec.ValueLabel != "" || spec.CategoryLabel != "" {
		// Axis names: one rotated on the left, one under the bottom edge.
		left += 18
		bottom += 18
	}
	if left < 48 {
		left = 48
	}
	plot := chart.Box{Top: top, Left: left, Right: w - 12 - legendW, Bottom: h - bottom}
	if plot.Right <= plot.Left+10 || plot.Bottom <= plot.Top+10 {
		return blank(w, h), plotLayout{}, nil
	}

	// Background and darkgrid plot area.
	chart.Draw.Box(r, chart.Box{Left: 0, Top: 0, Right: w, Bottom: h}, chart.Style{FillColor: colorBackground})
	chart.Draw.Box(r, plot, chart.Style{FillColor: colorPlotArea})

	drawGrid(r, f, plot, ticks, hi, spec.Horizontal)
	drawBars(r, spec, plot, hi)
	if !spec.HideCategoryLabels {
		drawCategoryLabels(r, spec, plot, tickFont, catSize)
	}
	if spec.ValueLabels && !spec.Horizontal {
		drawValueLabels(r, spec, plot, f, hi)
	}
	drawAxisNames(r, spec, plot, f, w, h)
	if spec.Title != "" {
		tw := textWidth(r, f, titleFontSize, spec.Title)
		drawText(r, f, titleFontSize, colorText, spec.Title, (w-tw)/2, 22)
	}
	if len(spec.Series) > 0 {
		drawLegend(r, spec.Series, plot, f)
	}

	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return nil, plotLayout{}, fmt.Errorf("render chart: %w", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, plotLayout{}, fmt.Errorf("decode chart: %w", err)
	}
	return img, plotLayout{Plot: plot}, nil
}

func drawGrid(r chart.Renderer, f *truetype.Font, plot chart.Box, ticks []chart.Tick, hi float64, horizontal bool) {
	for _, t := range ticks {
		if t.Value > hi {
			continue
		}
		frac := t.Value / hi
		r.SetStrokeColor(colorGridLine)
		r.SetStrokeWidth(1.0)
		if horizontal {
			x := plot.Left + int(frac*float64(plot.Width()))
			r.MoveTo(x, plot.Top)
			r.LineTo(x, plot.Bottom)
			r.Stroke()
			tw := textWidth(r, f, tickFontSize, t.Label)
			drawText(r, f, tickFontSize, colorText, t.Label, x-tw/2, plot.Bottom+16)
		} else {
			y := plot.Bottom - int(frac*float64(plot.Height()))
			r.MoveTo(plot.Left, y)
			r.LineTo(plot.Right, y)
			r.Stroke()
			tw := textWidth(r, f, tickFontSize, t.Label)
			drawText(r, f, tickFontSize, colorText, t.Label, plot.Left-8-tw, y+4)
		}
	}
}

func drawBars(r chart.Renderer, spec barSpec, plot chart.Box, hi float64) {
	nG := len(spec.Groups)
	nS := max(1, len(spec.Series))
	if spec.Horizontal {
		slot := float64(plot.Height()) / float64(nG)
		barH := slot * 0.8 / float64(nS)
		for gi, g := range spec.Groups {
			y0 := float64(plot.Top) + float64(gi)*slot + slot*0.1
			for si := 0; si < nS; si++ {
				v := 0.0
				if si < len(g.Values) {
					v = g.Values[si]
				}
				if v <= 0 {
					continue
				}
				bw := int(math.Round(v / hi * float64(plot.Width())))
				t := int(math.Round(y0 + float64(si)*barH))
				b := int(math.Round(y0+float64(si+1)*barH)) - 1
				if b <= t {
					b = t + 1
				}
				box := chart.Box{Left: plot.Left, Right: plot.Left + bw, Top: t, Bottom: b}
				chart.Draw.Box(r, box, chart.Style{FillColor: barColor(spec, gi, si)})
			}
		}
		return
	}
	slot := float64(plot.Width()) / float64(nG)
	barW := slot * 0.8 / float64(nS)
	for gi, g := range spec.Groups {
		x0 := float64(plot.Left) + float64(gi)*slot + slot*0.1
		for si := 0; si < nS; si++ {
			v := 0.0
			if si < len(g.Values) {
				v = g.Values[si]
			}
			if v <= 0 {
				continue
			}
			bh := int(math.Round(v / hi * float64(plot.Height())))
			l := int(math.Round(x0 + float64(si)*barW))
			rt := int(math.Round(x0+float64(si+1)*barW)) - 1
			if rt <= l {
				rt = l + 1
			}
			box := chart.Box{Left: l, Right: rt, Top: plot.Bottom - bh, Bottom: plot.Bottom}
			chart.Draw.Box(r, box, chart.Style{FillColor: barColor(spec, gi, si)})
		}
	}
}

func barColor(spec barSpec, groupIdx, seriesIdx int) drawing.Color {
	if len(spec.Series) == 0 {
		return paletteColor(groupIdx)
	}
	return paletteColor(seriesIdx)
}

func drawCategoryLabels(r chart.Renderer, spec barSpec, plot chart.Box, f *truetype.Font, size float64) {
	nG := len(spec.Groups)
	if spec.Horizontal {
		slot := float64(plot.Height()) / float64(nG)
		for gi, g := range spec.Groups {
			tw := textWidth(r, f, size, g.Label)
			y := plot.Top + int(float64(gi)*slot+slot/2)
			drawText(r, f, size, colorText, g.Label, plot.Left-8-tw, y+4)
		}
		return
	}
	slot := float64(plot.Width()) / float64(nG)
	for gi, g := range spec.Groups {
		tw := textWidth(r, f, size, g.Label)
		x := plot.Left + int(float64(gi)*slot+slot/2)
		drawText(r, f, size, colorText, g.Label, x-tw/2, plot.Bottom+6+int(size))
	}
}

func drawValueLabels(r chart.Renderer, spec barSpec, plot chart.Box, f *truetype.Font, hi float64) {
	nG := len(spec.Groups)
	nS := max(1, len(spec.Series))
	slot := float64(plot.Width()) / float64(nG)
	barW := slot * 0.8 / float64(nS)
	for gi, g := range spec.Groups {
		x0 := float64(plot.Left) + float64(gi)*slot + slot*0.1
		for si := 0; si < nS; si++ {
			v := 0.0
			if si < len(g.Values) {
				v = g.Values[si]
			}
			if v <= 0 {
				continue
			}
			label := formatCount(v)
			bh := int(math.Round(v / hi * float64(plot.Height())))
			cx := int(x0 + float64(si)*barW + barW/2)
			tw := textWidth(r, f, tickFontSize, label)
			drawText(r, f, tickFontSize, colorText, label, cx-tw/2, plot.Bottom-bh-5)
		}
	}
}

func drawAxisNames(r chart.Renderer, spec barSpec, plot chart.Box, f *truetype.Font, w, h int) {
	// The measure axis name sits left (rotated) on vertical charts and along
	// the bottom on horizontal ones; the category axis name takes the other.
	leftName, bottomName := spec.ValueLabel, spec.CategoryLabel
	if spec.Horizontal {
		leftName, bottomName = spec.CategoryLabel, spec.ValueLabel
	}
	if bottomName != "" {
		tw := textWidth(r, f, axisFontSize, bottomName)
		cx := plot.Left + (plot.Width()-tw)/2
		drawText(r, f, axisFontSize, colorText, bottomName, cx, h-8)
	}
	if leftName != "" {
		tw := textWidth(r, f, axisFontSize, leftName)
		cy := plot.Top + (plot.Height()+tw)/2
		r.SetFont(f)
		r.SetFontSize(axisFontSize)
		r.SetFontColor(colorText)
		r.SetTextRotation(-math.Pi / 2)
		r.Text(leftName, 16, cy)
		r.ClearTextRotation()
	}
}

func drawLegend(r chart.Renderer, series []string, plot chart.Box, f *truetype.Font) {
	x := plot.Right + 12
	y := plot.Top + 6
	for i, s := range series {
		chart.Draw.Box(r, chart.Box{Left: x, Top: y, Right: x + 12, Bottom: y + 12}, chart.Style{FillColor: paletteColor(i)})
		drawText(r, f, tickFontSize, colorText, s, x+18, y+11)
		y += 20
	}
}

func drawText(r chart.Renderer, f *truetype.Font, size float64, col drawing.Color, text string, x, y int) {
	r.SetFont(f)
	r.SetFontSize(size)
	r.SetFontColor(col)
	r.Text(text, x, y)
}

func textWidth(r chart.Renderer, f *truetype.Font, size float64, text string) int {
	r.SetFont(f)
	r.SetFontSize(size)
	return r.MeasureText(text).Width()
}

// formatCount renders a measure without trailing zeros (counts stay integral).
func formatCount(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// blank returns a degenerate empty chart image, used when a filter leaves no
// rows; writing it is accepted behavior, not an error.
func blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	return img
}

// niceAxisBounds pads [min,max] slightly and rounds both ends to nice
// increments based on the span's order of magnitude.
func niceAxisBounds(min, max float64) (float64, float64) {
	if math.IsNaN(min) || math.IsNaN(max) {
		return min, max
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	pad := span * 0.05
	if pad <= 0 {
		pad = 1
	}
	a := min - pad
	b := max + pad
	mag := math.Pow(10, math.Floor(math.Log10(span)))
	if !math.IsInf(mag, 0) && mag > 0 {
		a = math.Floor(a/mag) * mag
		b = math.Ceil(b/mag) * mag
	}
	return a, b
}

// niceTicks generates up to n desired tick marks between [min, max] using nice
// increments (1, 2, 2.5, 5, 10 scaled by powers of ten).
func niceTicks(min, max float64, n int) []chart.Tick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	mag := math.Pow(10, math.Floor(math.Log10((max-min)/float64(n-1))))
	candidates := []float64{1, 2, 2.5, 5, 10}
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range candidates {
		step := c * mag
		count := math.Ceil((max - min) / step)
		if count < 2 {
			count = 2
		}
		score := math.Abs(count - float64(n))
		if score < bestScore {
			bestScore = score
			bestStep = step
		}
	}
	start := math.Floor(min/bestStep) * bestStep
	end := math.Ceil(max/bestStep) * bestStep
	ticks := []chart.Tick{}
	for v := start; v <= end+bestStep/2; v += bestStep {
		ticks = append(ticks, chart.Tick{Value: v, Label: formatTick(v)})
		if len(ticks) > n+2 {
			break
		}
	}
	return ticks
}

func formatTick(v float64) string {
	if v == 0 {
		return "0"
	}
	av := math.Abs(v)
	switch {
	case av >= 10:
		return strconv.FormatFloat(v, 'f', 0, 64)
	case av >= 1:
		return strconv.FormatFloat(v, 'f', 1, 64)
	default:
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
}

// savePNG encodes img and writes it under outputDir with the fixed chart
// filename. A failed write is fatal to the chart that produced it.
func savePNG(outputDir, name string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("png encode %s: %w", name, err)
	}
	outPath := filepath.Join(outputDir, name)
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	return nil
}
