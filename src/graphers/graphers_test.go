package graphers

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/pmelanson/chatstats/src/records"
)

func msgAt(sender string, day, hour int) records.Record {
	return records.Record{
		Sender:    sender,
		Type:      records.TypeText,
		Timestamp: time.Date(2019, time.March, day, hour, 0, 0, 0, time.UTC),
	}
}

func messageFixture() []records.Record {
	var data []records.Record
	for i := 0; i < 6; i++ {
		data = append(data, msgAt("Ann Lee", 1+i%3, 9+i))
	}
	for i := 0; i < 4; i++ {
		data = append(data, msgAt("Bo Kim", 2+i%2, 20))
	}
	// calls and stickers mixed in
	data = append(data,
		records.Record{Sender: "Ann Lee", Type: records.TypeCall, CallDuration: 320, Timestamp: time.Date(2019, time.March, 2, 21, 0, 0, 0, time.UTC)},
		records.Record{Sender: "Bo Kim", Type: records.TypeCall, CallDuration: 95, Timestamp: time.Date(2019, time.March, 3, 8, 0, 0, 0, time.UTC)},
		records.Record{Sender: "Ann Lee", Type: records.TypeSticker, Sticker: "s1.png", Timestamp: time.Date(2019, time.March, 4, 10, 0, 0, 0, time.UTC)},
		records.Record{Sender: "Bo Kim", Type: records.TypeSticker, Sticker: "s1.png", Timestamp: time.Date(2019, time.March, 4, 11, 0, 0, 0, time.UTC)},
		records.Record{Sender: "Bo Kim", Type: records.TypeSticker, Sticker: "s2.png", Timestamp: time.Date(2019, time.March, 5, 11, 0, 0, 0, time.UTC)},
	)
	return data
}

func wordFixture() []records.Record {
	mk := func(sender string, typ records.MessageType, w string, weight, tfidf float64) records.Record {
		return records.Record{Sender: sender, Type: typ, Word: w, Weight: weight, TFIDF: tfidf,
			Timestamp: time.Date(2019, time.March, 2, 12, 0, 0, 0, time.UTC)}
	}
	return []records.Record{
		mk("Ann Lee", records.TypeWord, "kayak", 5, 0.9),
		mk("Ann Lee", records.TypeWord, "portage", 3, 0.7),
		mk("Ann Lee", records.TypeWord, "bo", 2, 0.1),
		mk("Bo Kim", records.TypeWord, "compiler", 6, 0.8),
		mk("Bo Kim", records.TypeWord, "ann", 4, 0.2),
		mk("Ann Lee", records.TypeEmoji, "❤", 7, 0),
		mk("Bo Kim", records.TypeEmoji, "\U0001F602", 9, 0),
		mk("Bo Kim", records.TypeHashtag, "#trip", 2, 0),
	}
}

// writeStickerAssets drops small solid-color PNGs for every sticker id the
// fixture references.
func writeStickerAssets(t *testing.T, dir string) {
	t.Helper()
	for _, name := range []string{"s1.png", "s2.png"} {
		img := image.NewRGBA(image.Rect(0, 0, 32, 32))
		for y := 0; y < 32; y++ {
			for x := 0; x < 32; x++ {
				img.SetRGBA(x, y, color.RGBA{R: 200, G: 80, B: 80, A: 255})
			}
		}
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("create sticker asset: %v", err)
		}
		if err := png.Encode(f, img); err != nil {
			t.Fatalf("encode sticker asset: %v", err)
		}
		f.Close()
	}
}

func writeWordList(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "common.txt")
	if err := os.WriteFile(path, []byte("The\na\nis\n"), 0o644); err != nil {
		t.Fatalf("write word list: %v", err)
	}
	return path
}

func symbolFont(t *testing.T) *Config {
	t.Helper()
	f, err := chart.GetDefaultFont()
	if err != nil {
		t.Fatalf("default font: %v", err)
	}
	return &Config{SymbolFont: f}
}

func assertChartFile(t *testing.T, outDir, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(outDir, name))
	if err != nil {
		t.Fatalf("chart artifact missing: %v", err)
	}
	if len(b) == 0 {
		t.Fatalf("chart artifact %s is empty", name)
	}
	return b
}

func TestDefaultMessageGraphers(t *testing.T) {
	outDir := t.TempDir()
	assetDir := t.TempDir()
	writeStickerAssets(t, assetDir)
	data := messageFixture()
	for _, g := range MessageGraphers(Config{}) {
		if err := g.Graph(data, outDir, assetDir); err != nil {
			t.Fatalf("%s: %v", g.Name(), err)
		}
		assertChartFile(t, outDir, g.Name()+".png")
	}
}

func TestDefaultWordGraphers(t *testing.T) {
	outDir := t.TempDir()
	cfg := *symbolFont(t)
	data := wordFixture()
	for _, g := range WordGraphers(cfg) {
		if err := g.Graph(data, outDir, ""); err != nil {
			t.Fatalf("%s: %v", g.Name(), err)
		}
		assertChartFile(t, outDir, g.Name()+".png")
	}
}

func TestExtraGraphers(t *testing.T) {
	outDir := t.TempDir()
	cfg := Config{WordListPath: writeWordList(t, t.TempDir())}
	for _, g := range ExtraMessageGraphers(cfg) {
		if err := g.Graph(messageFixture(), outDir, ""); err != nil {
			t.Fatalf("%s: %v", g.Name(), err)
		}
		assertChartFile(t, outDir, g.Name()+".png")
	}
	for _, g := range ExtraWordGraphers(cfg) {
		if err := g.Graph(wordFixture(), outDir, ""); err != nil {
			t.Fatalf("%s: %v", g.Name(), err)
		}
		assertChartFile(t, outDir, g.Name()+".png")
	}
}

func TestRerunOverwritesWithIdenticalBytes(t *testing.T) {
	outDir := t.TempDir()
	data := messageFixture()
	g := SenderMessagesGraph{cfg: Config{}}
	if err := g.Graph(data, outDir, ""); err != nil {
		t.Fatalf("first render: %v", err)
	}
	first := assertChartFile(t, outDir, "sender_messages.png")
	if err := g.Graph(data, outDir, ""); err != nil {
		t.Fatalf("second render: %v", err)
	}
	second := assertChartFile(t, outDir, "sender_messages.png")
	if string(first) != string(second) {
		t.Fatal("re-render produced different bytes for unchanged input")
	}
}

func TestEmptyInputProducesDegenerateChart(t *testing.T) {
	outDir := t.TempDir()
	for _, g := range []Grapher{
		SenderMessagesGraph{},
		WeekdayMessagesGraph{},
		TopStickersGraph{},
		CallDurationGraph{},
		DistinguishingWordsGraph{},
	} {
		if err := g.Graph(nil, outDir, ""); err != nil {
			t.Fatalf("%s on empty input: %v", g.Name(), err)
		}
		assertChartFile(t, outDir, g.Name()+".png")
	}
}

func TestUnwritableOutputDirFails(t *testing.T) {
	// A file path in place of a directory forces the write to fail.
	base := t.TempDir()
	notADir := filepath.Join(base, "file")
	if err := os.WriteFile(notADir, []byte("x"), 0o644); err != nil {
		t.Fatalf("fixture: %v", err)
	}
	g := SenderMessagesGraph{}
	if err := g.Graph(messageFixture(), filepath.Join(notADir, "sub"), ""); err == nil {
		t.Fatal("expected write error for unwritable output dir")
	}
}

func TestEmojiChartRequiresSymbolFont(t *testing.T) {
	g := EmojiCountGraph{cfg: Config{}}
	if err := g.Graph(wordFixture(), t.TempDir(), ""); err == nil {
		t.Fatal("expected error when symbol font is not registered")
	}
}

func TestWordCountChartRequiresWordList(t *testing.T) {
	g := WordCountGraph{cfg: Config{WordListPath: filepath.Join(t.TempDir(), "missing.txt")}}
	if err := g.Graph(wordFixture(), t.TempDir(), ""); err == nil {
		t.Fatal("expected error for missing word list")
	}
}

func TestStickerChartRequiresAssets(t *testing.T) {
	g := TopStickersGraph{}
	// Asset dir exists but has no sticker files.
	if err := g.Graph(messageFixture(), t.TempDir(), t.TempDir()); err == nil {
		t.Fatal("expected error for missing sticker image")
	}
}

func TestRenderSetContinuesPastFailures(t *testing.T) {
	outDir := t.TempDir()
	set := []Grapher{
		TopStickersGraph{},    // fails: no sticker assets in an empty dir
		SenderMessagesGraph{}, // still renders
	}
	failed := RenderSet(set, messageFixture(), outDir, t.TempDir())
	if failed != 1 {
		t.Fatalf("failed = %d, want 1", failed)
	}
	assertChartFile(t, outDir, "sender_messages.png")
}
