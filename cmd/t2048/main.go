// t2048 plays 2048 in the terminal, over SSH, over a websocket and as MCP tools.
//
// Usage:
//
//	t2048 list               - List board variants
//	t2048 play [variant]     - Play a board
//	t2048 menu               - Pick boards interactively
//	t2048 serve              - Start SSH server for remote play
//	t2048 web                - Start the websocket server
//	t2048 mcp                - Serve MCP tools on stdio
//	t2048 replays            - Browse journaled games
//	t2048 replay <id>        - Re-run a journaled game and verify it
//
// Global flags:
//
//	--config <path>     - Config file (default: search ~/.t2048, ./configs)
//	--seed <value>      - Set RNG seed for reproducible boards
//	--db <path>         - Set replay database path
//	--log-level <level> - debug, info, warn, error
package main

import (
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/storage"

	// Import the board variants to register them
	_ "github.com/vovakirdan/tui-2048/internal/games/t2048"
)

var (
	// Global flags
	flagConfig   string
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "t2048",
	Short: "2048 - slide and merge tiles in your terminal",
	Long: `t2048 is the 2048 sliding tile game for the terminal.

Available commands:
  list     - Show all board variants
  play     - Play a board directly
  menu     - Interactive board picker
  serve    - Start SSH server for remote play
  web      - Start the websocket server
  mcp      - Serve the game as MCP tools on stdio
  replays  - Browse journaled games
  replay   - Re-run a journaled game and verify its score

Examples:
  t2048 play
  t2048 play 2048_5x5 --seed 42
  t2048 menu
  t2048 serve
  t2048 replay 3f2a9c1e`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to replay database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(replaysCmd)
	rootCmd.AddCommand(replayCmd)
}

// loadConfig reads the config file and applies explicitly set global flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.Storage.DBPath = flagDBPath
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newLogger builds the process logger writing to w.
func newLogger(cfg config.Config, w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	}
	return logger
}

// newFileLogger logs to ~/.t2048/t2048.log so the alt screen stays clean.
// It falls back to a discarding logger when the file cannot be opened.
func newFileLogger(cfg config.Config) (*log.Logger, func()) {
	home, err := os.UserHomeDir()
	if err != nil {
		return log.New(io.Discard), func() {}
	}
	dir := filepath.Join(home, ".t2048")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return log.New(io.Discard), func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "t2048.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return log.New(io.Discard), func() {}
	}
	return newLogger(cfg, f, "t2048"), func() { f.Close() }
}

// openStore opens the replay journal. Interactive commands keep working
// without one, so failures are logged rather than returned.
func openStore(cfg config.Config, logger *log.Logger) *storage.Store {
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		logger.Warn("could not open replay database, games will not be journaled", "path", cfg.Storage.DBPath, "error", err)
		fmt.Fprintf(os.Stderr, "Warning: could not open replay database: %v\n", err)
		return nil
	}
	return store
}

// terminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 80, 24
}

// playerName names local games in the journal.
func playerName() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "local"
}
