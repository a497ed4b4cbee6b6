package heuristic

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/abadojack/whatlanggo"
	goahocorasick "github.com/anknown/ahocorasick"
	"github.com/samber/lo"

	"github.com/datar-psa/chatmod/api"
)

// LexiconConfidence is the fixed confidence of every lexicon verdict
const LexiconConfidence = 0.5

// Entry is one token of the lexicon, tagged with its ISO 639-1 language
type Entry struct {
	Lang string
	Word string
}

type compiledEntry struct {
	Entry
	pattern *regexp.Regexp
}

// Lexicon is the offline, always-available classifier of last resort.
// A text matches when any token appears as a whole word, or as a plain
// substring of the normalized text. The substring pass catches agglutinated
// forms the word match misses and accepts the extra false positives.
type Lexicon struct {
	byLang  map[string][]compiledEntry
	langs   []string
	matcher *goahocorasick.Machine
	size    int
	log     *slog.Logger
}

// NewLexicon compiles entries into a Lexicon. Entries that normalize to
// nothing are ignored; duplicates are collapsed.
func NewLexicon(entries []Entry, log *slog.Logger) (*Lexicon, error) {
	if log == nil {
		log = slog.Default()
	}
	l := &Lexicon{byLang: make(map[string][]compiledEntry), log: log}

	seen := make(map[string]struct{})
	var words []string
	for _, e := range entries {
		word := strings.TrimSpace(normalizeText(e.Word))
		if word == "" {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}

		pattern, err := regexp.Compile(`(?:^|[^\p{L}\p{N}])` + regexp.QuoteMeta(word) + `(?:$|[^\p{L}\p{N}])`)
		if err != nil {
			return nil, fmt.Errorf("compile lexicon entry %q: %w", e.Word, err)
		}
		lang := strings.ToLower(e.Lang)
		if _, ok := l.byLang[lang]; !ok {
			l.langs = append(l.langs, lang)
		}
		l.byLang[lang] = append(l.byLang[lang], compiledEntry{Entry: Entry{Lang: lang, Word: word}, pattern: pattern})
		words = append(words, word)
	}
	l.size = len(words)

	if len(words) > 0 {
		sort.Strings(words)
		patterns := lo.Map(words, func(w string, _ int) []rune { return []rune(w) })
		m := new(goahocorasick.Machine)
		if err := m.Build(patterns); err != nil {
			return nil, fmt.Errorf("build lexicon automaton: %w", err)
		}
		l.matcher = m
	}
	return l, nil
}

// DefaultLexicon returns a Lexicon over DefaultEntries
func DefaultLexicon(log *slog.Logger) *Lexicon {
	l, err := NewLexicon(DefaultEntries(), log)
	if err != nil {
		panic(fmt.Sprintf("default lexicon: %v", err))
	}
	return l
}

// Size returns the number of distinct tokens
func (l *Lexicon) Size() int {
	return l.size
}

// Match reports whether text contains a lexicon token. It never fails.
func (l *Lexicon) Match(text string) bool {
	normalized := normalizeText(text)
	if strings.TrimSpace(normalized) == "" {
		return false
	}

	for _, lang := range l.searchOrder(text) {
		for _, e := range l.byLang[lang] {
			if e.pattern.MatchString(normalized) {
				l.log.Debug("Lexicon word match", "lang", lang)
				return true
			}
		}
	}

	if l.matcher == nil {
		return false
	}
	return len(l.matcher.MultiPatternSearch([]rune(normalized), true)) > 0
}

// Classify implements api.Classifier. Lexicon verdicts carry no reason and no categories.
func (l *Lexicon) Classify(_ context.Context, text string) (api.Verdict, error) {
	return api.Verdict{
		IsToxic:    l.Match(text),
		Confidence: LexiconConfidence,
		Categories: []string{},
		Method:     api.MethodLexicon,
	}, nil
}

// searchOrder puts the detected language of text first
func (l *Lexicon) searchOrder(text string) []string {
	detected := whatlanggo.Detect(text).Lang.Iso6391()
	if _, ok := l.byLang[detected]; !ok {
		return l.langs
	}
	order := make([]string, 0, len(l.langs))
	order = append(order, detected)
	for _, lang := range l.langs {
		if lang != detected {
			order = append(order, lang)
		}
	}
	return order
}

// normalizeText lowercases text, turns every non-alphanumeric rune into a space
// and collapses the resulting runs so multi-word tokens match across punctuation
func normalizeText(text string) string {
	return strings.Join(strings.Fields(strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)), " ")
}

var _ api.Classifier = (*Lexicon)(nil)
