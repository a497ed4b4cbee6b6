package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/datar-psa/chatmod/heuristic"
)

// seedLexicon stores the lang:word lines of path in the Badger lexicon store
func seedLexicon(dbPath, path string, log *slog.Logger) error {
	if dbPath == "" {
		return fmt.Errorf("LEXICON_BADGER_PATH is required to seed the lexicon")
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	entries, err := parseEntries(bufio.NewScanner(f))
	if err != nil {
		return err
	}

	db, err := badger.Open(badger.DefaultOptions(dbPath).WithLoggingLevel(badger.ERROR))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	if err := heuristic.SeedBadger(db, entries); err != nil {
		return err
	}
	log.Info("Seeded lexicon", "path", dbPath, "count", len(entries))
	return nil
}

// parseEntries reads "lang:word" lines; blank lines and # comments are skipped
func parseEntries(scanner *bufio.Scanner) ([]heuristic.Entry, error) {
	var entries []heuristic.Entry
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lang, word, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(lang) == "" || strings.TrimSpace(word) == "" {
			return nil, fmt.Errorf("seed line %d: want lang:word, got %q", n, line)
		}
		entries = append(entries, heuristic.Entry{Lang: strings.TrimSpace(lang), Word: strings.TrimSpace(word)})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return entries, nil
}
