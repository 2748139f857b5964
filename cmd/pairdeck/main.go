package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/pairdeck/pairdeck/internal/config"
	"github.com/pairdeck/pairdeck/internal/deck"
	"github.com/pairdeck/pairdeck/internal/domain"
	"github.com/pairdeck/pairdeck/internal/source"
	"github.com/pairdeck/pairdeck/internal/storage"
)

func main() {
	flags := pflag.NewFlagSet("pairdeck", pflag.ExitOnError)
	configPath := flags.String("config", "pairdeck.yaml", "Path to the YAML config file")
	flags.String("db", "pairdeck.db", "Path to the SQLite database file")
	flags.String("cache_dir", "repos", "Directory for cached git sources")
	addPair := flags.String("add", "", "Add a pair as key=value")
	removeID := flags.Int64("remove", 0, "Remove the pair with the given id")
	suspendID := flags.Int64("suspend", 0, "Suspend the pair with the given id")
	reactivateID := flags.Int64("reactivate", 0, "Reactivate the pair with the given id")
	doSync := flags.Bool("sync", false, "Sync pair files from the configured sources")
	doList := flags.Bool("list", false, "List all pairs with their scheduling state")
	doReview := flags.Bool("review", false, "Run an interactive review session")
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath, flags.Changed("config"), flags)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DB)
	if err != nil {
		slog.Error("Failed to open database", "path", cfg.DB, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	dk, err := loadDeck(db, cfg)
	if err != nil {
		slog.Error("Failed to load deck", "error", err)
		os.Exit(1)
	}

	changed := false

	if *addPair != "" {
		key, value, ok := strings.Cut(*addPair, "=")
		if !ok {
			slog.Error("Invalid --add argument, want key=value", "arg", *addPair)
			os.Exit(1)
		}
		id, err := dk.AddPair(key, value)
		if err != nil {
			slog.Error("Failed to add pair", "error", err)
			os.Exit(1)
		}
		fmt.Printf("Added pair %d.\n", id)
		changed = true
	}

	if *removeID != 0 {
		if err := dk.RemovePair(*removeID); err != nil {
			slog.Error("Failed to remove pair", "id", *removeID, "error", err)
			os.Exit(1)
		}
		fmt.Printf("Removed pair %d.\n", *removeID)
		changed = true
	}

	if *suspendID != 0 {
		if err := dk.Suspend(*suspendID); err != nil {
			slog.Error("Failed to suspend pair", "id", *suspendID, "error", err)
			os.Exit(1)
		}
		fmt.Printf("Suspended pair %d.\n", *suspendID)
		changed = true
	}

	if *reactivateID != 0 {
		if err := dk.Reactivate(*reactivateID); err != nil {
			slog.Error("Failed to reactivate pair", "id", *reactivateID, "error", err)
			os.Exit(1)
		}
		fmt.Printf("Reactivated pair %d.\n", *reactivateID)
		changed = true
	}

	if *doSync {
		stats := source.Reconcile(dk, cfg.Sources, cfg.CacheDir)
		fmt.Printf("Found %d entries, added %d, %d errors.\n", stats.Parsed, stats.Added, stats.Errors)
		changed = changed || stats.Added > 0
	}

	if changed {
		if err := db.SaveSnapshot(dk.Snapshot()); err != nil {
			slog.Error("Failed to save deck", "error", err)
			os.Exit(1)
		}
	}

	if *doList {
		listPairs(dk)
	}

	if *doReview {
		if err := runSession(dk, db, cfg.Session); err != nil {
			slog.Error("Review session failed", "error", err)
			os.Exit(1)
		}
	}

	if !changed && !*doSync && !*doList && !*doReview {
		flags.Usage()
	}
}

// loadDeck restores the deck from the database, or starts an empty one
// when nothing has been saved yet.
func loadDeck(db *storage.DB, cfg config.Config) (*deck.Deck, error) {
	snap, found, err := db.LoadSnapshot()
	if err != nil {
		return nil, err
	}
	params := cfg.Scheduler
	if !found {
		return deck.New(&params), nil
	}
	return deck.FromSnapshot(snap, &params)
}

func listPairs(dk *deck.Deck) {
	snap := dk.Snapshot()
	fmt.Printf("Deck at tick %d, %d pairs.\n", snap.CurrentTick, len(snap.Pairs))
	for _, p := range snap.Pairs {
		status := p.State.String()
		if p.Suspended {
			status += " (suspended)"
		}
		fmt.Printf("%4d  %-10s due %-4d strength %-3d  %s\n", p.ID, status, p.DueAt, p.Strength, p.Key)
	}
}

// runSession drives one interactive review session: due pairs are
// prompted one at a time, the typed answer is checked against the value,
// and the outcome is reported back to the deck. New pairs are shown
// before they are quizzed. One tick is consumed per session.
func runSession(dk *deck.Deck, db *storage.DB, session config.Session) error {
	in := bufio.NewScanner(os.Stdin)
	reviewed := 0
	learned := 0

	for reviewed < session.Assess {
		p, ok := dk.NextDue()
		if !ok {
			fmt.Println("Nothing due.")
			break
		}

		if p.State == domain.New {
			if learned >= session.Learn {
				break
			}
			learned++
			fmt.Printf("    %s\n", p.Key)
			fmt.Printf("    %s\n", p.Value)
			fmt.Println("    (press ENTER to continue)")
			if !in.Scan() {
				return in.Err()
			}
		}

		fmt.Printf("    %s\n", p.Key)
		fmt.Print("  > ")
		if !in.Scan() {
			return in.Err()
		}
		answer := in.Text()

		correct := assess(answer, p.Value)
		updated, err := dk.ReportOutcome(p.ID, correct)
		if err != nil {
			return err
		}
		reviewed++

		if correct {
			fmt.Printf("    OK (next in %d)\n", updated.IntervalUnits)
		} else {
			fmt.Printf("    WRONG: %s\n", p.Value)
		}

		if err := db.SaveSnapshot(dk.Snapshot()); err != nil {
			return err
		}
	}

	if err := dk.AdvanceTick(1); err != nil {
		return err
	}
	if err := db.SaveSnapshot(dk.Snapshot()); err != nil {
		return err
	}
	fmt.Printf("Session done: %d reviewed.\n", reviewed)
	return nil
}

// assess compares the typed answer with the stored value. The match is
// exact apart from surrounding whitespace.
func assess(input, value string) bool {
	return strings.TrimSpace(input) == strings.TrimSpace(value)
}
