package web

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/share"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// Client message types.
const (
	TypeNewGame = "new_game"
	TypeMove    = "move"
	TypeSwipe   = "swipe"
	TypeState   = "state"
	TypeError   = "error"
)

// ClientMessage is one request read from the socket.
type ClientMessage struct {
	Type      string  `json:"type"`
	Size      int     `json:"size,omitempty"`      // new_game: 0 uses the server default
	Seed      int64   `json:"seed,omitempty"`      // new_game: 0 picks one from the clock
	Direction string  `json:"direction,omitempty"` // move
	DX        float64 `json:"dx,omitempty"`        // swipe, pointer units
	DY        float64 `json:"dy,omitempty"`
}

// ServerMessage is the reply to every client message.
type ServerMessage struct {
	Type     string           `json:"type"`
	Moved    bool             `json:"moved"`
	State    *t2048.GameState `json:"state,omitempty"`
	Status   t2048.Status     `json:"status,omitempty"`
	Share    []share.Link     `json:"share,omitempty"`
	ReplayID string           `json:"replay_id,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// client is one websocket connection and the board it owns. Only readPump
// touches the game.
type client struct {
	server   *Server
	conn     *websocket.Conn
	send     chan []byte
	logger   *log.Logger
	game     *t2048.Game
	saved    bool
	replayID string
}

// readPump reads requests, applies them and queues the replies.
func (c *client) readPump() {
	defer func() {
		c.journal(storage.OutcomeAbandoned)
		close(c.send)
		c.conn.Close()
		c.logger.Debug("connection closed")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read failed", "error", err)
			}
			return
		}

		reply := c.handle(data)
		out, err := json.Marshal(reply)
		if err != nil {
			c.logger.Error("cannot encode reply", "error", err)
			return
		}
		c.send <- out
	}
}

// writePump writes queued replies and keeps the connection alive with pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handle applies one raw request and builds the reply.
func (c *client) handle(data []byte) ServerMessage {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return errorMessage(fmt.Errorf("malformed message: %w", err))
	}

	switch msg.Type {
	case TypeNewGame:
		if err := c.newGame(msg.Size, msg.Seed); err != nil {
			return errorMessage(err)
		}
		return c.stateMessage(false)

	case TypeMove:
		dir, err := t2048.ParseDirection(msg.Direction)
		if err != nil {
			return errorMessage(err)
		}
		return c.stateMessage(c.move(dir))

	case TypeSwipe:
		dir, ok := t2048.ActionDirection(core.SwipeAction(msg.DX, msg.DY))
		if !ok {
			return c.stateMessage(false)
		}
		return c.stateMessage(c.move(dir))

	case TypeState:
		return c.stateMessage(false)
	}

	return errorMessage(fmt.Errorf("unknown message type %q", msg.Type))
}

// newGame journals the current board as abandoned and deals a new one.
func (c *client) newGame(size int, seed int64) error {
	if size == 0 {
		size = c.server.boardSize
	}
	if size < config.MinBoardSize || size > config.MaxBoardSize {
		return fmt.Errorf("board size %d out of range %d..%d", size, config.MinBoardSize, config.MaxBoardSize)
	}

	c.journal(storage.OutcomeAbandoned)

	c.game = t2048.NewHeadless(size)
	c.game.Reset(core.RuntimeConfig{Seed: seed})
	c.saved = false
	c.replayID = ""
	c.logger.Debug("new game", "size", size, "seed", c.game.Recording().Seed)
	return nil
}

func (c *client) ensureGame() {
	if c.game == nil {
		// The default size always passes the range check.
		c.newGame(0, 0)
	}
}

// move applies dir and journals the board once it ends.
func (c *client) move(dir t2048.Direction) bool {
	c.ensureGame()
	moved := c.game.Move(dir)

	snap := c.game.Snapshot()
	switch snap.Status() {
	case t2048.StatusWon:
		c.journal(storage.OutcomeWon)
	case t2048.StatusOver:
		c.journal(storage.OutcomeOver)
	}
	return moved
}

// journal saves the board once. Boards without moves are skipped.
func (c *client) journal(outcome storage.Outcome) {
	store := c.server.store
	if store == nil || c.game == nil || c.saved {
		return
	}
	rec := c.game.Recording()
	if rec.Moves == "" {
		return
	}
	c.saved = true

	id, err := store.SaveReplay(storage.ReplayRecord{
		Variant:   rec.Variant,
		BoardSize: rec.BoardSize,
		Seed:      rec.Seed,
		Moves:     rec.Moves,
		Score:     rec.Score,
		MaxTile:   rec.MaxTile,
		Outcome:   outcome,
		Player:    "web",
	})
	if err != nil {
		c.logger.Warn("could not save replay", "variant", rec.Variant, "error", err)
		return
	}
	c.replayID = id
	c.logger.Info("replay saved", "id", id, "variant", rec.Variant, "score", rec.Score, "outcome", outcome)
}

// stateMessage reports the board. Share links are attached once it has ended.
func (c *client) stateMessage(moved bool) ServerMessage {
	c.ensureGame()
	snap := c.game.Snapshot()
	msg := ServerMessage{
		Type:     TypeState,
		Moved:    moved,
		State:    &snap,
		Status:   snap.Status(),
		ReplayID: c.replayID,
	}
	if msg.Status.Terminal() {
		msg.Share = share.Links(snap.Score, c.server.config.ShareURL)
	}
	return msg
}

func errorMessage(err error) ServerMessage {
	return ServerMessage{Type: TypeError, Error: err.Error()}
}
