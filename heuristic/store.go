package heuristic

import (
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// LexiconPrefix is the key prefix of lexicon tokens in Badger.
// Keys are formatted as "lexicon:{lang}:{word}"; values are unused.
const LexiconPrefix = "lexicon:"

// LoadBadger reads every lexicon token stored in db
func LoadBadger(db *badger.DB) ([]Entry, error) {
	var entries []Entry
	err := db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false // tokens live in the keys
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(LexiconPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			rest := string(it.Item().Key()[len(prefix):])
			lang, word, ok := strings.Cut(rest, ":")
			if !ok || word == "" {
				continue
			}
			entries = append(entries, Entry{Lang: lang, Word: word})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load lexicon: %w", err)
	}
	return entries, nil
}

// SeedBadger writes entries to db in one batch
func SeedBadger(db *badger.DB, entries []Entry) error {
	wb := db.NewWriteBatch()
	for _, e := range entries {
		key := fmt.Sprintf("%s%s:%s", LexiconPrefix, strings.ToLower(e.Lang), e.Word)
		if err := wb.Set([]byte(key), nil); err != nil {
			wb.Cancel()
			return fmt.Errorf("seed lexicon entry %q: %w", e.Word, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush lexicon: %w", err)
	}
	return nil
}
