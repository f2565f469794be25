package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

var flagDifficulty string

var playCmd = &cobra.Command{
	Use:   "play [variant]",
	Short: "Play a board",
	Long: `Start playing a board. Without a variant the board size comes from
--difficulty or the config file.

Controls:
  Arrows/WASD/hjkl - Slide tiles (mouse drags work too)
  N                - Abandon and deal a new board
  R                - New board after the game ends
  Esc/Q            - Quit
  Ctrl+S           - Screenshot

Difficulty options:
  easy   - 6x6 board
  normal - 4x4 board
  hard   - 3x3 board

Examples:
  t2048 play
  t2048 play 2048_5x5
  t2048 play --difficulty hard
  t2048 play --seed 42`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	game, err := pickGame(cfg, args)
	if err != nil {
		return err
	}

	logger, closeLog := newFileLogger(cfg)
	defer closeLog()

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	width, height := terminalSize()
	rc := core.RuntimeConfig{
		ScreenW: width,
		ScreenH: height,
		Seed:    flagSeed,
	}

	logger.Info("starting game", "variant", game.ID(), "seed", flagSeed)
	if err := tui.Run(game, store, logger, rc, playerName()); err != nil {
		return fmt.Errorf("error running game: %w", err)
	}
	return nil
}

// pickGame resolves the variant argument, or the board size from
// --difficulty and the config when none is given.
func pickGame(cfg config.Config, args []string) (registry.Game, error) {
	if len(args) == 1 {
		if flagDifficulty != "" {
			return nil, fmt.Errorf("--difficulty cannot be combined with a variant")
		}
		if !registry.Exists(args[0]) {
			return nil, fmt.Errorf("unknown variant %q, run 't2048 list' to see available boards", args[0])
		}
		return registry.Create(args[0])
	}

	size, err := config.BoardSizeForPreset(flagDifficulty, cfg.Game.BoardSize)
	if err != nil {
		return nil, err
	}
	return t2048.New(size), nil
}
