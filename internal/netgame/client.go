package netgame

import (
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"blockworld/internal/game"
	"blockworld/internal/protocol"
	"blockworld/internal/world"
)

// Client is the network side of a game client. Inbound chunk data and block
// updates are applied to the engine's world and turned into dirty
// notifications; outbound traffic covers chunk requests, local edits and
// position updates.
type Client struct {
	conn   *websocket.Conn
	engine *game.Engine
	log    *zap.Logger

	out  chan []byte
	done chan struct{}
}

// Connect dials the server, announces the player and starts the read/write
// pumps. The returned client is ready to be wired into a ChunkLoader's
// OnChunkRequestNeeded callback.
func Connect(addr, playerName string, engine *game.Engine, log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}
	url := fmt.Sprintf("ws://%s/ws", addr)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("netgame: dialing %s: %w", url, err)
	}

	c := &Client{
		conn:   conn,
		engine: engine,
		log:    log,
		out:    make(chan []byte, sessionBuffer),
		done:   make(chan struct{}),
	}

	if err := c.enqueue(&protocol.ClientConnect{Type: protocol.TypeClientConnect, PlayerName: playerName}); err != nil {
		conn.Close()
		return nil, err
	}

	go c.writePump()
	go c.readPump()
	return c, nil
}

// RequestChunks asks the server for a batch of columns. Matches the
// ChunkLoader's OnChunkRequestNeeded signature.
func (c *Client) RequestChunks(positions []world.ChunkPos) {
	wire := make([]protocol.ChunkPos, len(positions))
	for i, p := range positions {
		wire[i] = protocol.FromWorld(p)
	}
	if err := c.enqueue(&protocol.ChunkRequest{Type: protocol.TypeChunkRequest, Positions: wire}); err != nil {
		c.log.Warn("chunk request dropped", zap.Error(err))
	}
}

// SendBlockUpdate reports a local block edit to the server.
func (c *Client) SendBlockUpdate(x, y, z int, bt world.BlockType) {
	msg := &protocol.BlockUpdate{Type: protocol.TypeBlockUpdate, X: x, Y: y, Z: z, NewType: uint8(bt)}
	if err := c.enqueue(msg); err != nil {
		c.log.Warn("block update dropped", zap.Error(err))
	}
}

// SendPosition reports the player position to the server.
func (c *Client) SendPosition(x, y, z float32) {
	msg := &protocol.PlayerPosition{Type: protocol.TypePlayerPosition, X: x, Y: y, Z: z}
	if err := c.enqueue(msg); err != nil {
		c.log.Warn("position update dropped", zap.Error(err))
	}
}

// Close tears down the connection and stops the pumps.
func (c *Client) Close() {
	close(c.done)
	c.conn.Close()
}

func (c *Client) enqueue(msg any) error {
	b, err := protocol.Encode(msg)
	if err != nil {
		return fmt.Errorf("netgame: encoding %T: %w", msg, err)
	}
	select {
	case c.out <- b:
		return nil
	default:
		return fmt.Errorf("netgame: outbound queue full")
	}
}

func (c *Client) writePump() {
	for {
		select {
		case <-c.done:
			return
		case b := <-c.out:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				c.log.Warn("write failed, closing", zap.Error(err))
				return
			}
		}
	}
}

func (c *Client) readPump() {
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				c.log.Warn("connection lost", zap.Error(err))
			}
			return
		}
		msg, err := protocol.Decode(raw)
		if err != nil {
			c.log.Warn("dropping malformed server message", zap.Error(err))
			continue
		}
		c.handleMessage(msg)
	}
}

func (c *Client) handleMessage(msg any) {
	switch m := msg.(type) {
	case *protocol.ChunkData:
		blocks, err := protocol.DecompressBlocks(m.Blocks)
		if err != nil {
			c.log.Warn("dropping undecodable chunk",
				zap.Int("x", m.Pos.X), zap.Int("z", m.Pos.Z), zap.Error(err))
			return
		}
		pos := m.Pos.ToWorld()
		c.engine.World().AddChunk(world.NewChunkFromBlocks(pos, blocks))
		c.engine.NotifyChunkReceived(pos)

	case *protocol.BlockUpdate:
		// An edit for a column we do not hold yet must be skipped, not
		// applied: applying it would lazily create a near-empty chunk that
		// AddChunk later refuses to replace, losing the real column data.
		// The edit is not lost — the server applies edits to its world
		// before rebroadcasting, so the column's ChunkData carries it.
		if !c.engine.World().HasChunk(world.WorldToChunkPos(m.X, m.Z)) {
			c.log.Debug("ignoring edit for unloaded column",
				zap.Int("x", m.X), zap.Int("z", m.Z))
			return
		}
		c.engine.NotifyBlockUpdate(m.X, m.Y, m.Z, world.BlockType(m.NewType))
	}
}
