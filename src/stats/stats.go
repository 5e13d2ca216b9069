// Package stats holds the aggregation recipes that feed the charts: group by
// (key, sender), count rows or sum token weights, and rank-and-truncate keys.
// All output orderings are deterministic so re-rendering an unchanged input
// produces identical artifacts.
package stats

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pmelanson/chatstats/src/records"
)

// Row is one aggregate row: a (category key, sender) pair and its measure.
type Row struct {
	Key    string
	Sender string
	Value  float64
}

// CountBy groups data by (key(r), sender) and counts rows. Rows come back
// sorted ascending by key then sender.
func CountBy(data []records.Record, key func(records.Record) string) []Row {
	return aggregate(data, key, func(records.Record) float64 { return 1 })
}

// SumWeightBy groups data by (key(r), sender) and sums the per-token weight.
func SumWeightBy(data []records.Record, key func(records.Record) string) []Row {
	return aggregate(data, key, func(r records.Record) float64 { return r.Weight })
}

func aggregate(data []records.Record, key func(records.Record) string, measure func(records.Record) float64) []Row {
	type pair struct{ key, sender string }
	acc := make(map[pair]float64)
	for _, r := range data {
		acc[pair{key(r), r.Sender}] += measure(r)
	}
	out := make([]Row, 0, len(acc))
	for p, v := range acc {
		out = append(out, Row{Key: p.key, Sender: p.sender, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key != out[j].Key {
			return out[i].Key < out[j].Key
		}
		return out[i].Sender < out[j].Sender
	})
	return out
}

// Totals sums row values per key across senders.
func Totals(rows []Row) map[string]float64 {
	out := make(map[string]float64, len(rows))
	for _, r := range rows {
		out[r.Key] += r.Value
	}
	return out
}

// Keys returns the distinct keys of rows in ascending order.
func Keys(rows []Row) []string {
	totals := Totals(rows)
	out := make([]string, 0, len(totals))
	for k := range totals {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// RankKeys returns up to n keys ordered by descending summed measure. Ties
// break toward the ascending key (the rank sort is stable over a sorted key
// list). n <= 0 means no truncation.
func RankKeys(rows []Row, n int) []string {
	totals := Totals(rows)
	keys := Keys(rows)
	sort.SliceStable(keys, func(i, j int) bool {
		return totals[keys[i]] > totals[keys[j]]
	})
	if n > 0 && len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

// WordCountRows aggregates word tokens for the word-count chart: word-type rows
// only, contractions and single characters dropped, then weight summed by
// (word, sender), with common words and purely-numeric tokens excluded from
// the aggregate.
func WordCountRows(data []records.Record, common map[string]bool) []Row {
	var filtered []records.Record
	for _, r := range data {
		if r.Type != records.TypeWord {
			continue
		}
		if strings.Contains(r.Word, "'") {
			continue
		}
		if utf8.RuneCountInString(r.Word) <= 1 {
			continue
		}
		filtered = append(filtered, r)
	}
	rows := SumWeightBy(filtered, func(r records.Record) string { return r.Word })
	out := rows[:0]
	for _, row := range rows {
		if common[row.Key] || isNumeric(row.Key) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// NameMentionRows sums token weight by (word, sender) for word tokens that
// equal one of the given first names. Grouping stays keyed by the sender of
// the message, not by whose name was said.
func NameMentionRows(data []records.Record, firstNames []string) []Row {
	names := make(map[string]bool, len(firstNames))
	for _, n := range firstNames {
		names[n] = true
	}
	var filtered []records.Record
	for _, r := range data {
		if names[r.Word] {
			filtered = append(filtered, r)
		}
	}
	return SumWeightBy(filtered, func(r records.Record) string { return r.Word })
}

// TopDistinguishing returns the sender's word rows ranked by descending
// distinctiveness score, truncated to n. The sort is stable so equal scores
// keep input order.
func TopDistinguishing(data []records.Record, sender string, n int) []records.Record {
	var rows []records.Record
	for _, r := range data {
		if r.Sender == sender {
			rows = append(rows, r)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].TFIDF > rows[j].TFIDF })
	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// GridDims picks a near-square rows x cols layout with rows*cols == n, for the
// small-multiples chart. rows = floor(sqrt(n)) decremented until it divides n;
// a prime n degenerates to 1 x n.
func GridDims(n int) (rows, cols int) {
	if n <= 0 {
		return 1, 1
	}
	rows = int(math.Sqrt(float64(n)))
	if rows < 1 {
		rows = 1
	}
	for n%rows != 0 {
		rows--
	}
	return rows, n / rows
}
