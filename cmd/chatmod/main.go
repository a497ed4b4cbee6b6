package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mama165/sdk-go/logs"

	"github.com/datar-psa/chatmod"
	"github.com/datar-psa/chatmod/chat"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires the moderator, screens stdin line by line and prints the tier stats on exit
func run() error {
	local := flag.Bool("local", false, "Classify with the lexicon only, never call remote providers")
	asJSON := flag.Bool("json", false, "Print verdicts as JSON lines")
	seed := flag.String("seed", "", "Seed LEXICON_BADGER_PATH with lang:word lines from this file and exit")
	flag.Parse()

	// 1. Configuration & Logger
	config, err := chatmod.LoadConfig()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	if *seed != "" {
		return seedLexicon(config.LexiconBadgerPath, *seed, log)
	}

	// 2. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Moderator
	moderator, cleanup, err := chatmod.NewFromConfig(ctx, config, log)
	if err != nil {
		return fmt.Errorf("moderator setup failed: %w", err)
	}
	defer cleanup()

	go func() {
		if err := moderator.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Cache maintenance stopped", "error", err)
		}
	}()

	// 4. Screen stdin
	if err := screenLines(ctx, moderator, os.Stdin, os.Stdout, !*local, *asJSON); err != nil {
		return err
	}

	printStats(os.Stdout, moderator.Stats())
	return nil
}

func screenLines(ctx context.Context, screener chat.Screener, in io.Reader, out io.Writer, allowRemote, asJSON bool) error {
	scanner := bufio.NewScanner(in)
	encoder := json.NewEncoder(out)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		screened := chat.Screen(ctx, screener, chat.Message{Author: "stdin", Content: line}, allowRemote)
		if asJSON {
			if err := encoder.Encode(screened.Verdict); err != nil {
				return fmt.Errorf("encode verdict: %w", err)
			}
			continue
		}
		fmt.Fprintln(out, formatVerdict(screened))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}
