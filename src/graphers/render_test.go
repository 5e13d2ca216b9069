package graphers

import (
	"image/color"
	"testing"

	"github.com/pmelanson/chatstats/src/stats"
)

func TestNiceAxisBoundsCoverInput(t *testing.T) {
	cases := []struct{ min, max float64 }{
		{0, 1},
		{0, 10},
		{0, 37},
		{0, 999},
		{2, 2}, // degenerate span
	}
	for _, c := range cases {
		lo, hi := niceAxisBounds(c.min, c.max)
		if lo > c.min {
			t.Fatalf("niceAxisBounds(%v,%v): lo %v above min", c.min, c.max, lo)
		}
		if hi < c.max {
			t.Fatalf("niceAxisBounds(%v,%v): hi %v below max", c.min, c.max, hi)
		}
	}
}

func TestNiceTicksAscending(t *testing.T) {
	ticks := niceTicks(0, 20, 6)
	if len(ticks) < 2 {
		t.Fatalf("expected at least 2 ticks, got %d", len(ticks))
	}
	if ticks[0].Value > 0 {
		t.Fatalf("first tick %v above range start", ticks[0].Value)
	}
	for i := 1; i < len(ticks); i++ {
		if ticks[i].Value <= ticks[i-1].Value {
			t.Fatalf("ticks not strictly ascending at %d: %v <= %v", i, ticks[i].Value, ticks[i-1].Value)
		}
	}
}

func TestNiceTicksDegenerate(t *testing.T) {
	if got := niceTicks(0, 10, 1); got != nil {
		t.Fatalf("expected nil for n<2, got %v", got)
	}
}

func TestFormatTick(t *testing.T) {
	cases := []struct {
		v    float64
		want string
	}{
		{0, "0"},
		{12, "12"},
		{2.5, "2.5"},
		{0.25, "0.25"},
	}
	for _, c := range cases {
		if got := formatTick(c.v); got != c.want {
			t.Fatalf("formatTick(%v) = %q, want %q", c.v, got, c.want)
		}
	}
}

func TestFormatCount(t *testing.T) {
	if got := formatCount(3); got != "3" {
		t.Fatalf("formatCount(3) = %q", got)
	}
	if got := formatCount(2.5); got != "2.5" {
		t.Fatalf("formatCount(2.5) = %q", got)
	}
}

func TestBlankIsWhite(t *testing.T) {
	img := blank(40, 20)
	b := img.Bounds()
	if b.Dx() != 40 || b.Dy() != 20 {
		t.Fatalf("blank size = %dx%d", b.Dx(), b.Dy())
	}
	r, g, bl, a := img.At(5, 5).RGBA()
	want := color.RGBA{255, 255, 255, 255}
	wr, wg, wb, wa := want.RGBA()
	if r != wr || g != wg || bl != wb || a != wa {
		t.Fatalf("blank pixel = %v %v %v %v, want white", r, g, bl, a)
	}
}

func TestGroupedValuesReservesZeroSlots(t *testing.T) {
	rows := []stats.Row{
		{Key: "Monday", Sender: "ann", Value: 3},
		{Key: "Friday", Sender: "bo", Value: 2},
		{Key: "Someday", Sender: "ann", Value: 9}, // not a requested key
	}
	groups := groupedValues(rows, []string{"Monday", "Tuesday", "Friday"}, []string{"ann", "bo"})
	if len(groups) != 3 {
		t.Fatalf("groups = %d, want 3", len(groups))
	}
	if groups[0].Values[0] != 3 || groups[0].Values[1] != 0 {
		t.Fatalf("Monday = %v", groups[0].Values)
	}
	if groups[1].Values[0] != 0 || groups[1].Values[1] != 0 {
		t.Fatalf("Tuesday slot not zero: %v", groups[1].Values)
	}
	if groups[2].Values[1] != 2 {
		t.Fatalf("Friday = %v", groups[2].Values)
	}
}

func TestRenderImageEmptyGroupsIsBlank(t *testing.T) {
	img, layout, err := renderImage(barSpec{Title: "empty"})
	if err != nil {
		t.Fatalf("renderImage: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != defaultChartWidth || b.Dy() != defaultChartHeight {
		t.Fatalf("blank chart size = %dx%d", b.Dx(), b.Dy())
	}
	if layout.Plot.Width() != 0 {
		t.Fatalf("expected empty plot layout, got %+v", layout.Plot)
	}
}

func TestRenderImageReportsPlotGeometry(t *testing.T) {
	img, layout, err := renderImage(barSpec{
		Title:      "geometry",
		ValueLabel: "count",
		Series:     []string{"ann", "bo"},
		Groups: []barGroup{
			{Label: "a", Values: []float64{3, 1}},
			{Label: "b", Values: []float64{2, 4}},
		},
	})
	if err != nil {
		t.Fatalf("renderImage: %v", err)
	}
	if img.Bounds().Dx() != defaultChartWidth {
		t.Fatalf("width = %d", img.Bounds().Dx())
	}
	p := layout.Plot
	if p.Width() <= 0 || p.Height() <= 0 {
		t.Fatalf("degenerate plot box %+v", p)
	}
	if p.Right > defaultChartWidth || p.Bottom > defaultChartHeight {
		t.Fatalf("plot box %+v exceeds image", p)
	}
}
