package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/platform/web"
)

var flagWebAddr string

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the websocket server",
	Long: `Start an HTTP server with a websocket endpoint at /ws and a health
check at /healthz. Every websocket connection owns one board.

Messages (JSON):
  {"type":"new_game","size":4,"seed":42}
  {"type":"move","direction":"left"}
  {"type":"swipe","dx":-120,"dy":8}
  {"type":"state"}

Every message is answered with the full board state, or an error.

Examples:
  t2048 web
  t2048 web --addr :9000`,
	RunE: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", "", "HTTP listen address (host:port)")
}

func runWeb(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.Web.Address = flagWebAddr
	}

	logger := newLogger(cfg, os.Stderr, "t2048-web")

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return web.NewServer(cfg.Web, cfg.Game.BoardSize, store, logger).ListenAndServe(ctx)
}
