package main

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// normalizeWord canonicalizes free-text input before any comparison:
// trimmed, case-folded, diacritics stripped, internal whitespace runs
// collapsed to single spaces. The result is stable under re-normalization.
func normalizeWord(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = stripDiacritics(s)
	return strings.Join(strings.Fields(s), " ")
}

func stripDiacritics(s string) string {
	// NFD decomposition followed by removal of combining marks, so that
	// "prémière" and "premiere" compare equal.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// levenshtein is the classic dynamic-programming edit distance over runes.
func levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)

	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}

	return prev[len(rb)]
}

// approxMatch accepts input within an edit distance of a quarter of the
// target's length, with a floor of one. Both arguments must already be
// normalized.
func approxMatch(input, target string) bool {
	if input == "" || target == "" {
		return false
	}
	threshold := max(1, len([]rune(target))/4)
	return levenshtein(input, target) <= threshold
}

// wordMatcher resolves normalized words to pair ids: O(1) on exact accepted
// words via a reverse index, fuzzy otherwise. Fuzzy resolution succeeds only
// when exactly one pair qualifies; anything ambiguous is rejected rather
// than guessed.
type wordMatcher struct {
	pairs    []pair
	exact    map[string]string   // normalized accepted word -> pair id
	variants map[string][]string // pair id -> normalized variants incl. the label
	labels   map[string]string   // pair id -> display label
}

func newWordMatcher(pairs []pair) *wordMatcher {
	m := &wordMatcher{
		pairs:    pairs,
		exact:    make(map[string]string),
		variants: make(map[string][]string),
		labels:   make(map[string]string),
	}

	for _, p := range pairs {
		m.labels[p.ID] = p.RightLabel

		seen := make(map[string]bool)
		add := func(word string) {
			w := normalizeWord(word)
			if w == "" || seen[w] {
				return
			}
			seen[w] = true
			m.exact[w] = p.ID
			m.variants[p.ID] = append(m.variants[p.ID], w)
		}

		add(p.RightLabel)
		for _, word := range p.Accepted {
			add(word)
		}
	}

	return m
}

// resolve maps a normalized input to a pair id, or "" when the input is
// unknown or fuzzy-matches more than one pair.
func (m *wordMatcher) resolve(normalized string) string {
	if normalized == "" {
		return ""
	}

	if id, ok := m.exact[normalized]; ok {
		return id
	}

	candidate := ""
	for _, p := range m.pairs {
		for _, variant := range m.variants[p.ID] {
			if approxMatch(normalized, variant) {
				if candidate != "" && candidate != p.ID {
					return ""
				}
				candidate = p.ID
				break
			}
		}
	}

	return candidate
}

// matchesAny reports whether input matches one of the accepted words,
// exactly or fuzzily. Used where the target is already known, e.g. checking
// a riddle answer.
func matchesAny(normalized string, accepted []string) bool {
	if normalized == "" {
		return false
	}
	for _, word := range accepted {
		w := normalizeWord(word)
		if normalized == w || approxMatch(normalized, w) {
			return true
		}
	}
	return false
}

const (
	wordStatusValid     = "valid"
	wordStatusInvalid   = "invalid"
	wordStatusDuplicate = "duplicate"
	wordStatusEmpty     = "empty"
)

type wordEntry struct {
	Input        string `json:"input"`
	Normalized   string `json:"normalized"`
	Status       string `json:"status"`
	PairID       string `json:"pairId,omitempty"`
	MatchedLabel string `json:"matchedLabel,omitempty"`
}

type wordValidation struct {
	Entries        []wordEntry
	MatchedPairIDs []string
	MissingLabels  []string
	Success        bool
}

// validateWords checks up to one submission slot per pair. Two inputs that
// normalize identically, or that resolve to an already-claimed pair, are
// flagged duplicate; each pair may be claimed at most once per attempt.
func (m *wordMatcher) validateWords(words []string) wordValidation {
	if len(words) > len(m.pairs) {
		words = words[:len(m.pairs)]
	}

	claimed := make(map[string]bool)
	seen := make(map[string]bool)

	entries := make([]wordEntry, 0, len(words))
	for _, input := range words {
		normalized := normalizeWord(input)
		entry := wordEntry{Input: input, Normalized: normalized}

		switch {
		case normalized == "":
			entry.Status = wordStatusEmpty
		case seen[normalized]:
			entry.Status = wordStatusDuplicate
		default:
			seen[normalized] = true

			id := m.resolve(normalized)
			switch {
			case id == "":
				entry.Status = wordStatusInvalid
			case claimed[id]:
				entry.Status = wordStatusDuplicate
			default:
				claimed[id] = true
				entry.Status = wordStatusValid
				entry.PairID = id
				entry.MatchedLabel = m.labels[id]
			}
		}

		entries = append(entries, entry)
	}

	v := wordValidation{
		Entries: entries,
		Success: len(claimed) == len(m.pairs),
	}
	for _, p := range m.pairs {
		if claimed[p.ID] {
			v.MatchedPairIDs = append(v.MatchedPairIDs, p.ID)
		} else {
			v.MissingLabels = append(v.MissingLabels, p.LeftLabel)
		}
	}

	return v
}
