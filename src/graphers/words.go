package graphers

import (
	"fmt"
	"image"
	"strings"
	"unicode/utf8"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/pmelanson/chatstats/src/records"
	"github.com/pmelanson/chatstats/src/stats"
)

// WordCountGraph plots the 10 most common words after filtering contractions,
// single characters, single digits and the common-words exclusion list.
type WordCountGraph struct {
	cfg Config
}

func (g WordCountGraph) Name() string { return "word_count_filtered_total" }

func (g WordCountGraph) Graph(data []records.Record, outputDir, assetDir string) error {
	common, err := loadWordList(g.cfg.WordListPath)
	if err != nil {
		return fmt.Errorf("%s: %w", g.Name(), err)
	}
	senders := records.Senders(data)
	rows := stats.WordCountRows(data, common)
	keys := stats.RankKeys(rows, 10)
	groups := groupedValues(rows, keys, senders)
	img, _, err := renderImage(barSpec{
		CategoryLabel: "Most common words (after filtering out common English words)",
		ValueLabel:    "Occurrences",
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

// EmojiCountGraph plots the 10 most used emoji by summed weight, grouped by
// sender. Tick labels render with the registered symbol font; the ranked list
// is also printed to stdout.
type EmojiCountGraph struct {
	cfg Config
}

func (g EmojiCountGraph) Name() string { return "emoji_total" }

func (g EmojiCountGraph) Graph(data []records.Record, outputDir, assetDir string) error {
	if g.cfg.SymbolFont == nil {
		return fmt.Errorf("%s: symbol font not registered", g.Name())
	}
	var emoji []records.Record
	for _, r := range data {
		if r.Type == records.TypeEmoji {
			emoji = append(emoji, r)
		}
	}
	senders := records.Senders(emoji)
	rows := stats.SumWeightBy(emoji, func(r records.Record) string { return r.Word })
	keys := stats.RankKeys(rows, 10)
	groups := groupedValues(rows, keys, senders)

	if len(keys) > 0 {
		parts := make([]string, 0, len(keys))
		for i, e := range keys {
			parts = append(parts, fmt.Sprintf("%d. %s", i+1, e))
		}
		fmt.Println("Your top emojis:")
		fmt.Println(strings.Join(parts, "   "))
	}

	img, _, err := renderImage(barSpec{
		CategoryLabel: "Most common emoji",
		ValueLabel:    "Occurrences",
		Series:        senders,
		Groups:        groups,
		TickFont:      g.cfg.SymbolFont,
		TickFontSize:  20,
		Width:         g.cfg.Width,
		Height:        g.cfg.Height,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", g.Name(), err)
	}
	return savePNG(outputDir, g.Name()+".png", img)
}

// NameGraph plots who says whose first names: one bar group per derived first
// name (quoted in the label), grouped by the sender of the message.
type NameGraph struct {
	cfg Config
}

func (g NameGraph) Name() string { return "names" }

func (g NameGraph) Graph(data []records.Record, outputDir, assetDir string) error {
	senders := records.Senders(data)
	firstNames := records.FirstNames(data)
	rows := stats.NameMentionRows(data, firstNames)
	groups := groupedValues(rows, firstNames, senders)
	for i := range groups {
		groups[i].Label = fmt.Sprintf("%q", groups[i].Label)
	}
	img, _, err := renderImage(barSpec{
		CategoryLabel: "Name said in chat",
		ValueLabel:    "Occurrences",
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

// DistinguishingWordsGraph renders one subplot per sender with that sender's
// top words by distinctiveness score, laid out in a near-square grid.
type DistinguishingWordsGraph struct {
	cfg Config
}

func (g DistinguishingWordsGraph) Name() string { return "distinguishing_words" }

func (g DistinguishingWordsGraph) Graph(data []records.Record, outputDir, assetDir string) error {
	var filtered []records.Record
	for _, r := range data {
		if r.Type != records.TypeWord {
			continue
		}
		if utf8.RuneCountInString(r.Word) <= 1 {
			continue
		}
		filtered = append(filtered, r)
	}
	senders := records.Senders(filtered)
	if len(senders) == 0 {
		return savePNG(outputDir, g.Name()+".png", blank(defaultChartWidth, defaultChartHeight))
	}
	rows, cols := stats.GridDims(len(senders))

	cells := make([]image.Image, 0, len(senders))
	for _, sender := range senders {
		top := stats.TopDistinguishing(filtered, sender, 10)
		groups := make([]barGroup, 0, len(top))
		for _, r := range top {
			groups = append(groups, barGroup{Label: r.Word, Values: []float64{r.TFIDF}})
		}
		cell, _, err := renderImage(barSpec{
			Title:         sender,
			CategoryLabel: "Most distinguishing words",
			ValueLabel:    "Uniqueness Score",
			Groups:        groups,
			Horizontal:    true,
			Width:         420,
			Height:        440,
		})
		if err != nil {
			return fmt.Errorf("%s: subplot %s: %w", g.Name(), sender, err)
		}
		cells = append(cells, cell)
	}

	titleFont, err := chart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("%s: %w", g.Name(), err)
	}
	img := compositeGrid(cells, rows, cols, "Our Most Distinguishing Words", titleFont)
	return savePNG(outputDir, g.Name()+".png", img)
}

// HashtagGraph plots the 10 most used hashtags by summed weight, grouped by
// sender, as horizontal bars.
type HashtagGraph struct {
	cfg Config
}

func (g HashtagGraph) Name() string { return "hashtags" }

func (g HashtagGraph) Graph(data []records.Record, outputDir, assetDir string) error {
	var tags []records.Record
	for _, r := range data {
		if r.Type == records.TypeHashtag {
			tags = append(tags, r)
		}
	}
	senders := records.Senders(tags)
	rows := stats.SumWeightBy(tags, func(r records.Record) string { return r.Word })
	keys := stats.RankKeys(rows, 10)
	groups := groupedValues(rows, keys, senders)
	img, _, err := renderImage(barSpec{
		CategoryLabel: "Most common hashtags",
		ValueLabel:    "Occurrences",
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
