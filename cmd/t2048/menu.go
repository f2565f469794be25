package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a board picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to pick a board.
Press Tab to browse journaled games. After a board ends,
Esc returns to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select board
  Tab          - Replays
  Q            - Quit

Examples:
  t2048 menu
  t2048 menu --db ./replays.db`,
	RunE: runMenu,
}

func runMenu(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
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

	if err := tui.RunSession(store, logger, rc, playerName()); err != nil {
		return fmt.Errorf("error running menu: %w", err)
	}
	return nil
}
