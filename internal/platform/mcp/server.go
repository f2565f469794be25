// Package mcp exposes the 2048 engine as Model Context Protocol tools over
// stdio, so an agent can play a board move by move.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/share"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

const instructions = `2048 - MCP Interface

Slide the tiles of a square board. Equal tiles that collide merge into their
sum and the sum is added to the score. After every move that changes the
board one new tile (2 or, rarely, 4) appears. Reach 2048 to win; the game is
over when the board is full and no neighbours are equal.

AVAILABLE TOOLS:
- new_game: Deal a new board (optional size and seed)
- move: Slide the tiles up/down/left/right
- get_state: Show the board, score and status
- share_links: Share links for the final score`

// Server is an MCP tool server owning a single board. Tool calls may arrive
// concurrently; mu serializes every engine access.
type Server struct {
	mu        sync.Mutex
	game      *t2048.Game
	boardSize int
	shareURL  string
	store     *storage.Store
	logger    *log.Logger
	saved     bool
	mcp       *server.MCPServer
}

// NewServer creates the tool server. store may be nil to run without a journal.
func NewServer(cfg config.Config, store *storage.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Server{
		boardSize: cfg.Game.BoardSize,
		shareURL:  cfg.Web.ShareURL,
		store:     store,
		logger:    logger,
	}

	s.mcp = server.NewMCPServer(
		"2048",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(instructions),
	)
	s.registerTools()
	return s
}

// registerTools registers all MCP tools.
func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.Tool{
		Name:        "new_game",
		Description: "Deal a new board. The current board is journaled as abandoned.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"size": map[string]interface{}{
					"type":        "integer",
					"description": fmt.Sprintf("Board size, %d to %d (optional)", config.MinBoardSize, config.MaxBoardSize),
				},
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "Spawn seed; the same seed and moves give the same game (optional)",
				},
			},
		},
	}, s.handleNewGame)

	s.mcp.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Slide all tiles in a direction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"direction": map[string]interface{}{
					"type":        "string",
					"description": "Direction to move",
					"enum":        []string{"up", "down", "left", "right"},
				},
			},
			Required: []string{"direction"},
		},
	}, s.handleMove)

	s.mcp.AddTool(mcp.Tool{
		Name:        "get_state",
		Description: "Get the current board, score and status",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleGetState)

	s.mcp.AddTool(mcp.Tool{
		Name:        "share_links",
		Description: "Get the share text and social links for the current score",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleShareLinks)
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves tools on stdin/stdout until ctx is cancelled or stdin closes.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Info("MCP stdio server ready")
	defer s.finish()
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}

// finish journals an unfinished board when the client goes away.
func (s *Server) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journal(storage.OutcomeAbandoned)
}

func (s *Server) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})

	size := s.boardSize
	if v, ok := args["size"].(float64); ok {
		size = int(v)
	}
	if size < config.MinBoardSize || size > config.MaxBoardSize {
		return mcp.NewToolResultError(fmt.Sprintf("board size %d out of range %d..%d", size, config.MinBoardSize, config.MaxBoardSize)), nil
	}
	var seed int64
	if v, ok := args["seed"].(float64); ok {
		seed = int64(v)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.journal(storage.OutcomeAbandoned)
	s.game = t2048.NewHeadless(size)
	s.game.Reset(core.RuntimeConfig{Seed: seed})
	s.saved = false

	s.logger.Debug("new game", "size", size, "seed", s.game.Recording().Seed)
	return mcp.NewToolResultText("New game started.\n\n" + formatState(s.game.Snapshot())), nil
}

func (s *Server) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	direction, _ := args["direction"].(string)

	dir, err := t2048.ParseDirection(direction)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureGame()
	snap := s.game.Snapshot()
	if snap.Status().Terminal() {
		return mcp.NewToolResultError(fmt.Sprintf("game is %s; call new_game to play again", snap.Status())), nil
	}

	moved := s.game.Move(dir)
	snap = s.game.Snapshot()

	switch snap.Status() {
	case t2048.StatusWon:
		s.journal(storage.OutcomeWon)
	case t2048.StatusOver:
		s.journal(storage.OutcomeOver)
	}

	header := fmt.Sprintf("Moved %s.", dir)
	if !moved {
		header = fmt.Sprintf("Nothing moved %s; try another direction.", dir)
	}
	return mcp.NewToolResultText(header + "\n\n" + formatState(snap)), nil
}

func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureGame()
	return mcp.NewToolResultText(formatState(s.game.Snapshot())), nil
}

func (s *Server) handleShareLinks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	score := 0
	if s.game != nil {
		score = s.game.Snapshot().Score
	}
	s.mu.Unlock()

	out, err := json.MarshalIndent(struct {
		Text  string       `json:"text"`
		Links []share.Link `json:"links"`
	}{share.Text(score), share.Links(score, s.shareURL)}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// ensureGame deals a default board on first use. Callers hold mu.
func (s *Server) ensureGame() {
	if s.game == nil {
		s.game = t2048.NewHeadless(s.boardSize)
		s.game.Reset(core.RuntimeConfig{})
		s.saved = false
	}
}

// journal saves the board once. Callers hold mu.
func (s *Server) journal(outcome storage.Outcome) {
	if s.store == nil || s.game == nil || s.saved {
		return
	}
	rec := s.game.Recording()
	if rec.Moves == "" {
		return
	}
	s.saved = true

	id, err := s.store.SaveReplay(storage.ReplayRecord{
		Variant:   rec.Variant,
		BoardSize: rec.BoardSize,
		Seed:      rec.Seed,
		Moves:     rec.Moves,
		Score:     rec.Score,
		MaxTile:   rec.MaxTile,
		Outcome:   outcome,
		Player:    "mcp",
	})
	if err != nil {
		s.logger.Warn("could not save replay", "variant", rec.Variant, "error", err)
		return
	}
	s.logger.Info("replay saved", "id", id, "variant", rec.Variant, "score", rec.Score, "outcome", outcome)
}

// formatState renders the board as a text grid followed by score and status.
func formatState(state t2048.GameState) string {
	var b strings.Builder

	width := len(fmt.Sprint(max(state.MaxTile(), 2)))
	for _, row := range state.Board.Values() {
		cells := make([]string, len(row))
		for i, v := range row {
			if v == 0 {
				cells[i] = fmt.Sprintf("%*s", width, ".")
				continue
			}
			cells[i] = fmt.Sprintf("%*d", width, v)
		}
		b.WriteString(strings.Join(cells, " "))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nScore: %d\nMax tile: %d\nStatus: %s\n", state.Score, state.MaxTile(), state.Status())
	switch state.Status() {
	case t2048.StatusWon:
		b.WriteString("\nYou win! " + share.Text(state.Score) + "\n")
	case t2048.StatusOver:
		b.WriteString("\nGame over. " + share.Text(state.Score) + "\n")
	}
	return b.String()
}
