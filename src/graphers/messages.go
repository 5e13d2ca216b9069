package graphers

import (
	"fmt"
	"image"
	"sort"
	"strconv"

	"github.com/pmelanson/chatstats/src/records"
	"github.com/pmelanson/chatstats/src/stats"
)

// SenderMessagesGraph plots the number of messages sent by each sender, bars
// ordered by descending count with the literal count above each bar.
type SenderMessagesGraph struct {
	cfg Config
}

func (g SenderMessagesGraph) Name() string { return "sender_messages" }

func (g SenderMessagesGraph) Graph(data []records.Record, outputDir, assetDir string) error {
	rows := stats.CountBy(data, func(r records.Record) string { return r.Sender })
	totals := stats.Totals(rows)
	order := stats.RankKeys(rows, 0)
	groups := make([]barGroup, 0, len(order))
	for _, s := range order {
		groups = append(groups, barGroup{Label: s, Values: []float64{totals[s]}})
	}
	img, _, err := renderImage(barSpec{
		CategoryLabel: "Sender",
		ValueLabel:    "Messages sent",
		Groups:        groups,
		ValueLabels:   true,
		Width:         g.cfg.Width,
		Height:        g.cfg.Height,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", g.Name(), err)
	}
	return savePNG(outputDir, g.Name()+".png", img)
}

// WeekdayMessagesGraph plots messages per weekday grouped by sender. All seven
// weekday slots are reserved in fixed Monday-first order even when empty.
type WeekdayMessagesGraph struct {
	cfg Config
}

func (g WeekdayMessagesGraph) Name() string { return "weekday_messages" }

func (g WeekdayMessagesGraph) Graph(data []records.Record, outputDir, assetDir string) error {
	senders := records.Senders(data)
	rows := stats.CountBy(data, func(r records.Record) string { return r.Weekday() })
	groups := groupedValues(rows, records.Weekdays[:], senders)
	img, _, err := renderImage(barSpec{
		CategoryLabel: "Day of the week",
		ValueLabel:    "Messages sent",
		Series:        senders,
		Groups:        groups,
		Width:         g.cfg.Width,
		Height:        g.cfg.Height,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", g.Name(), err)
	}
	return savePNG(outputDir, g.Name()+".png", img)
}

// TopDaysMessagesGraph plots the 5 calendar days with the most messages,
// grouped by sender, ordered by descending total (ascending date on ties).
type TopDaysMessagesGraph struct {
	cfg Config
}

func (g TopDaysMessagesGraph) Name() string { return "top_days_messages" }

func (g TopDaysMessagesGraph) Graph(data []records.Record, outputDir, assetDir string) error {
	senders := records.Senders(data)
	rows := stats.CountBy(data, func(r records.Record) string { return r.Day() })
	keys := stats.RankKeys(rows, 5)
	groups := groupedValues(rows, keys, senders)
	img, _, err := renderImage(barSpec{
		CategoryLabel: "Top 5 Days With Most Messages",
		ValueLabel:    "Messages sent",
		Series:        senders,
		Groups:        groups,
		Width:         g.cfg.Width,
		Height:        g.cfg.Height,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", g.Name(), err)
	}
	return savePNG(outputDir, g.Name()+".png", img)
}

// TimeInDayMessagesGraph plots message frequency by hour of day, grouped by
// sender. Bars are ordered by ascending hour, not by count.
type TimeInDayMessagesGraph struct {
	cfg Config
}

func (g TimeInDayMessagesGraph) Name() string { return "time_in_day_messages" }

func (g TimeInDayMessagesGraph) Graph(data []records.Record, outputDir, assetDir string) error {
	senders := records.Senders(data)
	rows := stats.CountBy(data, func(r records.Record) string { return strconv.Itoa(r.Hour()) })
	// Hours present in the data, ascending numerically.
	totals := stats.Totals(rows)
	var keys []string
	for h := 0; h < 24; h++ {
		if k := strconv.Itoa(h); totals[k] > 0 {
			keys = append(keys, k)
		}
	}
	groups := groupedValues(rows, keys, senders)
	img, _, err := renderImage(barSpec{
		CategoryLabel: "Hour in Day",
		ValueLabel:    "Messages sent",
		Series:        senders,
		Groups:        groups,
		Width:         g.cfg.Width,
		Height:        g.cfg.Height,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", g.Name(), err)
	}
	return savePNG(outputDir, g.Name()+".png", img)
}

// PerTermMessagesGraph plots messages per 4-month term as horizontal bar
// groups, ordered ascending lexicographic by the derived "<year> <term>" label.
type PerTermMessagesGraph struct {
	cfg Config
}

func (g PerTermMessagesGraph) Name() string { return "per_term_messages" }

func (g PerTermMessagesGraph) Graph(data []records.Record, outputDir, assetDir string) error {
	senders := records.Senders(data)
	rows := stats.CountBy(data, func(r records.Record) string { return r.Term() })
	keys := stats.Keys(rows)
	groups := groupedValues(rows, keys, senders)
	img, _, err := renderImage(barSpec{
		CategoryLabel: "Terms",
		ValueLabel:    "Messages sent",
		Series:        senders,
		Groups:        groups,
		Horizontal:    true,
		Width:         g.cfg.Width,
		Height:        g.cfg.Height,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", g.Name(), err)
	}
	return savePNG(outputDir, g.Name()+".png", img)
}

// TopStickersGraph plots the 10 most used stickers grouped by sender, with the
// sticker image itself drawn under each bar slot instead of a text label.
type TopStickersGraph struct {
	cfg Config
}

func (g TopStickersGraph) Name() string { return "top_stickers" }

// thumbMargin reserves the strip under the plot where thumbnails land.
const thumbMargin = 72

func (g TopStickersGraph) Graph(data []records.Record, outputDir, assetDir string) error {
	var stickers []records.Record
	for _, r := range data {
		if r.Type == records.TypeSticker {
			stickers = append(stickers, r)
		}
	}
	senders := records.Senders(stickers)
	rows := stats.CountBy(stickers, func(r records.Record) string { return r.Sticker })
	keys := stats.RankKeys(rows, 10)
	groups := groupedValues(rows, keys, senders)
	img, layout, err := renderImage(barSpec{
		CategoryLabel:      "Top 10 Stickers Used",
		ValueLabel:         "Occurrences",
		Series:             senders,
		Groups:             groups,
		HideCategoryLabels: true,
		ThumbMargin:        thumbMargin,
		Width:              g.cfg.Width,
		Height:             g.cfg.Height,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", g.Name(), err)
	}
	if len(keys) > 0 {
		thumbs := make([]image.Image, 0, len(keys))
		for _, k := range keys {
			thumb, err := loadStickerImage(assetDir, k)
			if err != nil {
				return fmt.Errorf("%s: %w", g.Name(), err)
			}
			thumbs = append(thumbs, thumb)
		}
		img = overlayStickers(img, thumbs, layout.Plot, thumbMargin)
	}
	return savePNG(outputDir, g.Name()+".png", img)
}

// CallDurationGraph plots the 10 longest calls as horizontal bars, one bar per
// call labeled with its calendar day. Several calls on the same day keep their
// duplicate day labels; there is no re-aggregation by day.
type CallDurationGraph struct {
	cfg Config
}

func (g CallDurationGraph) Name() string { return "call_duration" }

func (g CallDurationGraph) Graph(data []records.Record, outputDir, assetDir string) error {
	var calls []records.Record
	for _, r := range data {
		if r.Type == records.TypeCall {
			calls = append(calls, r)
		}
	}
	sort.SliceStable(calls, func(i, j int) bool { return calls[i].CallDuration > calls[j].CallDuration })
	if len(calls) > 10 {
		calls = calls[:10]
	}
	groups := make([]barGroup, 0, len(calls))
	for _, c := range calls {
		groups = append(groups, barGroup{Label: c.Day(), Values: []float64{c.CallDuration}})
	}
	img, _, err := renderImage(barSpec{
		CategoryLabel: "Day of call",
		ValueLabel:    "Call duration in seconds",
		Groups:        groups,
		Horizontal:    true,
		Width:         g.cfg.Width,
		Height:        g.cfg.Height,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", g.Name(), err)
	}
	return savePNG(outputDir, g.Name()+".png", img)
}
