// Package graphers turns chat record sets into chart images. Each Grapher is
// an independent, stateless procedure: filter rows, aggregate, render one
// labeled bar chart, write one PNG under the output directory.
package graphers

import (
	"github.com/golang/freetype/truetype"
	"github.com/rs/zerolog/log"

	"github.com/pmelanson/chatstats/src/records"
	"github.com/pmelanson/chatstats/src/stats"
)

// Grapher renders one chart from a record set. Implementations never depend
// on another grapher's output; a failure is local to the chart.
type Grapher interface {
	// Name is the chart's registry name and output file base name.
	Name() string
	// Graph writes <outputDir>/<Name>.png. assetDir is the parent directory
	// sticker images are looked up under.
	Graph(data []records.Record, outputDir, assetDir string) error
}

// Config carries the shared chart settings and the explicitly registered
// assets graphers may require.
type Config struct {
	// SymbolFont must be registered before the emoji chart renders; tick
	// labels there need symbol glyph coverage.
	SymbolFont *truetype.Font
	// WordListPath points at the common-words exclusion list consumed by the
	// word-count chart.
	WordListPath string
	// Width/Height override the default chart size when positive.
	Width  int
	Height int
}

// MessageGraphers is the default collection run against message-level records.
func MessageGraphers(cfg Config) []Grapher {
	return []Grapher{
		SenderMessagesGraph{cfg: cfg},
		WeekdayMessagesGraph{cfg: cfg},
		TopDaysMessagesGraph{cfg: cfg},
		TimeInDayMessagesGraph{cfg: cfg},
		PerTermMessagesGraph{cfg: cfg},
		TopStickersGraph{cfg: cfg},
	}
}

// WordGraphers is the default collection run against word-level records.
func WordGraphers(cfg Config) []Grapher {
	return []Grapher{
		EmojiCountGraph{cfg: cfg},
		NameGraph{cfg: cfg},
		DistinguishingWordsGraph{cfg: cfg},
	}
}

// ExtraMessageGraphers are available but not part of the default message run.
func ExtraMessageGraphers(cfg Config) []Grapher {
	return []Grapher{CallDurationGraph{cfg: cfg}}
}

// ExtraWordGraphers are available but not part of the default word run.
func ExtraWordGraphers(cfg Config) []Grapher {
	return []Grapher{WordCountGraph{cfg: cfg}, HashtagGraph{cfg: cfg}}
}

// RenderSet runs each grapher over the same record set sequentially. A chart
// failure is logged and does not abort its siblings; the number of failures is
// returned for the caller to act on.
func RenderSet(graphers []Grapher, data []records.Record, outputDir, assetDir string) int {
	failed := 0
	for _, g := range graphers {
		if err := g.Graph(data, outputDir, assetDir); err != nil {
			log.Error().Err(err).Str("chart", g.Name()).Msg("chart failed")
			failed++
			continue
		}
		log.Info().Str("chart", g.Name()).Msg("chart rendered")
	}
	return failed
}

// groupedValues arranges aggregate rows into one bar group per key, with one
// value per sender in sender order. Keys absent from rows keep a zero group so
// fixed category orders (weekdays) reserve their slot.
func groupedValues(rows []stats.Row, keys, senders []string) []barGroup {
	senderIdx := make(map[string]int, len(senders))
	for i, s := range senders {
		senderIdx[s] = i
	}
	byKey := make(map[string][]float64, len(keys))
	for _, k := range keys {
		byKey[k] = make([]float64, len(senders))
	}
	for _, row := range rows {
		vals, ok := byKey[row.Key]
		if !ok {
			continue
		}
		if si, ok := senderIdx[row.Sender]; ok {
			vals[si] += row.Value
		}
	}
	groups := make([]barGroup, 0, len(keys))
	for _, k := range keys {
		groups = append(groups, barGroup{Label: k, Values: byKey[k]})
	}
	return groups
}
