package main

import (
	"strings"
	"testing"
)

func TestNormalizeWord(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"  Figma  ", "figma"},
		{"PREMIÈRE  Pro", "premiere pro"},
		{"Node.js", "node.js"},
		{"   ", ""},
		{"adobe\t photoshop", "adobe photoshop"},
	}

	for _, c := range cases {
		got := normalizeWord(c.input)
		if got != c.want {
			t.Errorf("normalizeWord(%q) = %q, want %q", c.input, got, c.want)
		}

		if again := normalizeWord(got); again != got {
			t.Errorf("normalizeWord(%q) is not idempotent: %q -> %q", c.input, got, again)
		}
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"figma", "figma", 0},
		{"figma", "fxgma", 1},
		{"figma", "fxgmx", 2},
		{"figma", "", 5},
		{"kitten", "sitting", 3},
	}

	for _, c := range cases {
		if got := levenshtein(c.a, c.b); got != c.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
		if got := levenshtein(c.b, c.a); got != c.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", c.b, c.a, got, c.want)
		}
	}
}

func TestApproxMatchThreshold(t *testing.T) {
	// "figma" has five runes, so the threshold floors at one edit.
	cases := []struct {
		input string
		want  bool
	}{
		{"figma", true},
		{"figm a", true},
		{"fxgma", true},
		{"fxgmx", false},
		{"", false},
	}

	for _, c := range cases {
		if got := approxMatch(c.input, "figma"); got != c.want {
			t.Errorf("approxMatch(%q, \"figma\") = %t, want %t", c.input, got, c.want)
		}
	}
}

func TestResolve(t *testing.T) {
	m := newWordMatcher(workshopPairs)

	cases := []struct {
		input string
		want  string
	}{
		{"figma", "ux-designer"},
		{"fxgma", "ux-designer"},
		{"premiere", "video-editor"},
		{"adobe premiere pro", "video-editor"},
		{"node", "backend-dev"},
		{"nodejs", "backend-dev"},
		{"canva", "community-manager"},
		{"qwertyuiop", ""},
		{"", ""},
	}

	for _, c := range cases {
		if got := m.resolve(normalizeWord(c.input)); got != c.want {
			t.Errorf("resolve(%q) = %q, want %q", c.input, got, c.want)
		}
	}
}

func TestValidateWordsFullSet(t *testing.T) {
	m := newWordMatcher(workshopPairs)

	v := m.validateWords([]string{"HTML", "Photoshop", "prémière pro", "Figma", "Canva", "node.js"})

	if !v.Success {
		t.Fatalf("expected success, missing: %v", v.MissingLabels)
	}
	if len(v.MatchedPairIDs) != len(workshopPairs) {
		t.Errorf("matched %d pairs, want %d", len(v.MatchedPairIDs), len(workshopPairs))
	}
	for _, entry := range v.Entries {
		if entry.Status != wordStatusValid {
			t.Errorf("entry %q has status %q, want %q", entry.Input, entry.Status, wordStatusValid)
		}
	}
}

func TestValidateWordsDuplicatesAndGaps(t *testing.T) {
	m := newWordMatcher(workshopPairs)

	v := m.validateWords([]string{"HTML", "html", "Photoshop", "Figma", "Canva", "Node"})

	if v.Success {
		t.Fatal("expected failure: only five distinct pairs are claimed")
	}

	wantStatuses := []string{
		wordStatusValid,     // HTML
		wordStatusDuplicate, // html normalizes to the same word
		wordStatusValid,
		wordStatusValid,
		wordStatusValid,
		wordStatusValid,
	}
	for i, entry := range v.Entries {
		if entry.Status != wantStatuses[i] {
			t.Errorf("entry %d (%q) has status %q, want %q", i, entry.Input, entry.Status, wantStatuses[i])
		}
	}

	if len(v.MissingLabels) != 1 || v.MissingLabels[0] != "Video editor" {
		t.Errorf("missing labels = %v, want [Video editor]", v.MissingLabels)
	}
}

func TestValidateWordsClaimedPairDuplicate(t *testing.T) {
	m := newWordMatcher(workshopPairs)

	// "node" and "nodejs" normalize differently but resolve to the same
	// pair; the second claim must flag as duplicate.
	v := m.validateWords([]string{"node", "nodejs"})

	if v.Entries[0].Status != wordStatusValid {
		t.Errorf("first entry status = %q, want valid", v.Entries[0].Status)
	}
	if v.Entries[1].Status != wordStatusDuplicate {
		t.Errorf("second entry status = %q, want duplicate", v.Entries[1].Status)
	}
}

func TestValidateWordsEmptyAndOverflow(t *testing.T) {
	m := newWordMatcher(workshopPairs)

	words := []string{"", "figma", "canva", "html", "photoshop", "premiere", "node", "extra"}
	v := m.validateWords(words)

	if len(v.Entries) != len(workshopPairs) {
		t.Fatalf("got %d entries, want %d (input capped at pair count)", len(v.Entries), len(workshopPairs))
	}
	if v.Entries[0].Status != wordStatusEmpty {
		t.Errorf("blank input status = %q, want empty", v.Entries[0].Status)
	}
	if v.Success {
		t.Error("expected failure with a blank slot")
	}
}

func TestMatchesAny(t *testing.T) {
	accepted := []string{"wifi", "wi-fi", "wireless"}

	for _, word := range []string{"wifi", "WiFi", "wi-fi", "wifl"} {
		if !matchesAny(normalizeWord(word), accepted) {
			t.Errorf("matchesAny(%q) = false, want true", word)
		}
	}
	for _, word := range []string{"", "ethernet", strings.Repeat("x", 20)} {
		if matchesAny(normalizeWord(word), accepted) {
			t.Errorf("matchesAny(%q) = true, want false", word)
		}
	}
}
