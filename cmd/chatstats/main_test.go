package main

import (
	"testing"

	"github.com/pmelanson/chatstats/src/graphers"
)

func names(gs []graphers.Grapher) []string {
	var out []string
	for _, g := range gs {
		out = append(out, g.Name())
	}
	return out
}

func contains(ss []string, want string) bool {
	for _, s := range ss {
		if s == want {
			return true
		}
	}
	return false
}

func TestSelectGraphersDefault(t *testing.T) {
	msg, word, err := selectGraphers(graphers.Config{}, "default")
	if err != nil {
		t.Fatalf("selectGraphers: %v", err)
	}
	if len(msg) != 6 || len(word) != 3 {
		t.Fatalf("default selection = %d message, %d word charts", len(msg), len(word))
	}
	if contains(names(msg), "call_duration") {
		t.Fatal("optional chart included in default selection")
	}
}

func TestSelectGraphersAll(t *testing.T) {
	msg, word, err := selectGraphers(graphers.Config{}, "all")
	if err != nil {
		t.Fatalf("selectGraphers: %v", err)
	}
	if !contains(names(msg), "call_duration") {
		t.Fatal("'all' selection missing call_duration")
	}
	if !contains(names(word), "word_count_filtered_total") || !contains(names(word), "hashtags") {
		t.Fatalf("'all' selection missing optional word charts: %v", names(word))
	}
}

func TestSelectGraphersByName(t *testing.T) {
	msg, word, err := selectGraphers(graphers.Config{}, "sender_messages, emoji_total")
	if err != nil {
		t.Fatalf("selectGraphers: %v", err)
	}
	if len(msg) != 1 || msg[0].Name() != "sender_messages" {
		t.Fatalf("message selection = %v", names(msg))
	}
	if len(word) != 1 || word[0].Name() != "emoji_total" {
		t.Fatalf("word selection = %v", names(word))
	}
}

func TestSelectGraphersUnknownName(t *testing.T) {
	if _, _, err := selectGraphers(graphers.Config{}, "no_such_chart"); err == nil {
		t.Fatal("expected error for unknown chart name")
	}
}

func TestSelectGraphersEmptySelectionIsDefault(t *testing.T) {
	msg, word, err := selectGraphers(graphers.Config{}, "")
	if err != nil {
		t.Fatalf("selectGraphers: %v", err)
	}
	if len(msg) != 6 || len(word) != 3 {
		t.Fatalf("empty selection = %d message, %d word charts", len(msg), len(word))
	}
}
