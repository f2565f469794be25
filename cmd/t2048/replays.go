package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// scanLimit bounds how much of the journal the plain listing and prefix lookup read.
const scanLimit = 1000

var (
	flagReplayVariant string
	flagReplayPlayer  string
	flagReplayLimit   int
	flagReplayPlain   bool
	flagReplayClear   bool
)

var replaysCmd = &cobra.Command{
	Use:   "replays",
	Short: "Browse journaled games",
	Long: `Browse the replay journal. On a terminal this opens the interactive
browser; with --plain or when piped it prints a table.

Examples:
  t2048 replays
  t2048 replays --plain --variant 2048_5x5
  t2048 replays --plain --player alice --limit 5
  t2048 replays --clear --variant 2048_3x3`,
	RunE: runReplays,
}

var replayCmd = &cobra.Command{
	Use:   "replay <id>",
	Short: "Re-run a journaled game and verify its score",
	Long: `Re-run a journaled game from its seed and move log, print the final
board and check that score and best tile match the journal.
The id may be the 8 character prefix shown by 'replays'.

Example:
  t2048 replay 3f2a9c1e`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replaysCmd.Flags().StringVar(&flagReplayVariant, "variant", "", "Only show this variant")
	replaysCmd.Flags().StringVar(&flagReplayPlayer, "player", "", "Only show this player's games")
	replaysCmd.Flags().IntVar(&flagReplayLimit, "limit", 20, "Maximum number of games to print")
	replaysCmd.Flags().BoolVar(&flagReplayPlain, "plain", false, "Print a table instead of the browser")
	replaysCmd.Flags().BoolVar(&flagReplayClear, "clear", false, "Delete journaled games (all, or --variant only)")
}

// openJournal opens the store for commands that cannot work without it.
func openJournal(cmd *cobra.Command) (config.Config, *storage.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return cfg, nil, err
	}
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		return cfg, nil, fmt.Errorf("error opening replay database: %w", err)
	}
	return cfg, store, nil
}

func runReplays(cmd *cobra.Command, _ []string) error {
	if flagReplayVariant != "" && !registry.Exists(flagReplayVariant) {
		return fmt.Errorf("unknown variant %q, run 't2048 list' to see available boards", flagReplayVariant)
	}

	cfg, store, err := openJournal(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagReplayClear {
		if err := store.ClearReplays(flagReplayVariant); err != nil {
			return err
		}
		if flagReplayVariant == "" {
			fmt.Println("Cleared all replays.")
		} else {
			fmt.Printf("Cleared replays for %s.\n", flagReplayVariant)
		}
		return nil
	}

	if !flagReplayPlain && term.IsTerminal(int(os.Stdout.Fd())) {
		logger, closeLog := newFileLogger(cfg)
		defer closeLog()

		width, height := terminalSize()
		return tui.RunReplays(store, logger, playerName(), width, height)
	}

	return printReplays(store)
}

func printReplays(store *storage.Store) error {
	var (
		records []storage.ReplayRecord
		err     error
	)
	if flagReplayPlayer != "" {
		records, err = store.PlayerReplays(flagReplayPlayer, scanLimit)
	} else {
		records, err = store.RecentReplays(scanLimit)
	}
	if err != nil {
		return err
	}

	shown := 0
	for _, r := range records {
		if flagReplayVariant != "" && r.Variant != flagReplayVariant {
			continue
		}
		if shown == 0 {
			fmt.Printf("  %-8s  %-9s  %7s  %5s  %-9s  %5s  %-10s  %s\n",
				"ID", "Board", "Score", "Max", "Result", "Moves", "Player", "Date")
		}
		fmt.Printf("  %-8s  %-9s  %7d  %5d  %-9s  %5d  %-10s  %s\n",
			r.ReplayID[:min(8, len(r.ReplayID))], r.Variant, r.Score, r.MaxTile, r.Outcome,
			len(r.Moves), r.Player, r.CreatedAt.Format("2006-01-02 15:04"))
		shown++
		if shown == flagReplayLimit {
			break
		}
	}

	if shown == 0 {
		fmt.Println("No replays recorded yet.")
		fmt.Println()
		fmt.Println("Play 't2048 play' and finish a board to journal it!")
		return nil
	}

	stats, err := store.Stats()
	if err != nil {
		return err
	}
	fmt.Println()
	for _, g := range registry.List() {
		if s, ok := stats[g.ID]; ok {
			fmt.Printf("%s: %d games, %d wins, best %d, avg %.0f\n",
				g.Title, s.GamesCount, s.Wins, s.BestScore, s.AvgScore)
		}
	}
	return nil
}

func runReplay(cmd *cobra.Command, args []string) error {
	_, store, err := openJournal(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	record, err := findReplay(store, args[0])
	if err != nil {
		return err
	}

	replay, err := t2048.ParseReplay(record.BoardSize, record.Seed, record.Moves)
	if err != nil {
		return err
	}
	state := replay.Run().State()

	w, h := t2048.BoardExtent(state.Size)
	screen := core.NewScreen(w, h)
	t2048.DrawBoard(screen, state.Board, 0, 0)

	fmt.Printf("Replay %s  %s  seed %d  %d moves  by %s\n\n",
		record.ReplayID, record.Variant, record.Seed, len(record.Moves), record.Player)
	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println(tui.RenderScreen(screen))
	} else {
		fmt.Println(screen.String())
	}
	fmt.Printf("\nScore %d (journal %d)  Max %d (journal %d)  %s\n",
		state.Score, record.Score, state.MaxTile(), record.MaxTile, state.Status())

	if state.Score != record.Score || state.MaxTile() != record.MaxTile {
		return errors.New("replay does not match the journal")
	}
	fmt.Println("verified")
	return nil
}

// findReplay looks up a full id, or a unique prefix of one.
func findReplay(store *storage.Store, id string) (*storage.ReplayRecord, error) {
	record, err := store.ReplayByID(id)
	if err != nil {
		return nil, err
	}
	if record != nil {
		return record, nil
	}

	records, err := store.RecentReplays(scanLimit)
	if err != nil {
		return nil, err
	}
	var found *storage.ReplayRecord
	for i := range records {
		if !strings.HasPrefix(records[i].ReplayID, id) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("replay id %q is ambiguous", id)
		}
		found = &records[i]
	}
	if found == nil {
		return nil, fmt.Errorf("no replay %q", id)
	}
	return found, nil
}
