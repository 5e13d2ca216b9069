// Package records defines the chat record model shared by every chart, plus the
// timestamp/name derivations the aggregation recipes key on.
package records

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// MessageType classifies a record. The type determines which optional fields
// are meaningful: CallDuration for calls, Sticker for stickers, Word/Weight
// for the token-level types.
type MessageType string

const (
	TypeText    MessageType = "text"
	TypeCall    MessageType = "call"
	TypeSticker MessageType = "sticker"
	TypeEmoji   MessageType = "emoji"
	TypeHashtag MessageType = "hashtag"
	TypeWord    MessageType = "word"
)

// Record is one input row: a message, call, sticker use, or a word/emoji/hashtag
// token occurrence. Token-level rows carry a per-token occurrence count (Weight)
// and, for word rows, a precomputed distinctiveness score (TFIDF) from upstream.
type Record struct {
	Sender       string      `json:"sender_name"`
	TimestampUTC string      `json:"timestamp_utc"`
	Type         MessageType `json:"type"`
	CallDuration float64     `json:"call_duration,omitempty"`
	Sticker      string      `json:"sticker,omitempty"`
	Word         string      `json:"word,omitempty"`
	Weight       float64     `json:"n_w,omitempty"`
	TFIDF        float64     `json:"tf_idf,omitempty"`

	// Timestamp is parsed from TimestampUTC by the loader and is always set on
	// loaded records; rows without a well-formed timestamp are dropped there.
	Timestamp time.Time `json:"-"`
}

// Weekdays is the fixed category order for the weekday chart, Monday first.
var Weekdays = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Weekday returns the record's weekday name in the fixed Monday-first order.
func (r Record) Weekday() string {
	// time.Weekday counts from Sunday; shift so Monday is index 0.
	return Weekdays[(int(r.Timestamp.Weekday())+6)%7]
}

// Day returns the calendar day, timestamp truncated to day.
func (r Record) Day() string {
	return r.Timestamp.Format("2006-01-02")
}

// Hour returns the hour of day, 0-23.
func (r Record) Hour() int {
	return r.Timestamp.Hour()
}

// Term buckets the record into a 4-month academic-style period:
// months 1-4 are the winter term, 5-8 summer, 9-12 fall.
// The label sorts lexicographically in (year, term) order.
func (r Record) Term() string {
	term := "T3 F"
	switch m := int(r.Timestamp.Month()); {
	case m < 5:
		term = "T1 W"
	case m < 9:
		term = "T2 S"
	}
	return fmt.Sprintf("%d %s", r.Timestamp.Year(), term)
}

// Senders returns the distinct sender names in first-appearance order. That
// order keys the color assignment in every multi-sender chart, so it must be
// stable for a given input.
func Senders(data []Record) []string {
	seen := make(map[string]bool, 4)
	var out []string
	for _, r := range data {
		if r.Sender == "" || seen[r.Sender] {
			continue
		}
		seen[r.Sender] = true
		out = append(out, r.Sender)
	}
	return out
}

// FirstNames derives the sorted, lowercased first name of each distinct sender.
func FirstNames(data []Record) []string {
	var out []string
	for _, s := range Senders(data) {
		fields := strings.Fields(s)
		if len(fields) == 0 {
			continue
		}
		out = append(out, strings.ToLower(fields[0]))
	}
	sort.Strings(out)
	return out
}
