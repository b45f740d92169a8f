package protocol

import (
	"encoding/json"
	"fmt"

	"blockworld/internal/world"
)

// Message type tags. Every message is a JSON object with a "type" field.
const (
	TypeClientConnect  = "client_connect"
	TypeChunkRequest   = "chunk_request"
	TypeChunkData      = "chunk_data"
	TypeBlockUpdate    = "block_update"
	TypePlayerPosition = "player_position"
)

// ChunkPos is the wire form of a chunk column position.
type ChunkPos struct {
	X int `json:"x"`
	Z int `json:"z"`
}

// ToWorld converts to the in-memory column position.
func (p ChunkPos) ToWorld() world.ChunkPos {
	return world.ChunkPos{X: p.X, Z: p.Z}
}

// FromWorld converts an in-memory column position to its wire form.
func FromWorld(p world.ChunkPos) ChunkPos {
	return ChunkPos{X: p.X, Z: p.Z}
}

// ClientConnect announces a client after the websocket handshake.
type ClientConnect struct {
	Type       string `json:"type"`
	PlayerName string `json:"player_name"`
}

// ChunkRequest asks the server for a batch of chunk columns, ordered
// closest-to-player first.
type ChunkRequest struct {
	Type      string     `json:"type"`
	Positions []ChunkPos `json:"positions"`
}

// ChunkData carries one full column. Blocks is the zlib-compressed dense
// block array (ChunkVolume bytes uncompressed); JSON encodes it as base64.
type ChunkData struct {
	Type   string   `json:"type"`
	Pos    ChunkPos `json:"pos"`
	Blocks []byte   `json:"blocks"`
}

// BlockUpdate is a single block edit, client to server or rebroadcast.
type BlockUpdate struct {
	Type    string `json:"type"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Z       int    `json:"z"`
	NewType uint8  `json:"new_type"`
}

// PlayerPosition reports a player's world position.
type PlayerPosition struct {
	Type string  `json:"type"`
	X    float32 `json:"x"`
	Y    float32 `json:"y"`
	Z    float32 `json:"z"`
}

// Encode marshals a message to its wire bytes.
func Encode(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

// Decode parses wire bytes into the concrete message struct for the tagged
// type. Unknown or missing types are an error for the transport layer to
// report; malformed data never reaches the game core.
func Decode(data []byte) (any, error) {
	var header struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("protocol: invalid message frame: %w", err)
	}

	var msg any
	switch header.Type {
	case TypeClientConnect:
		msg = &ClientConnect{}
	case TypeChunkRequest:
		msg = &ChunkRequest{}
	case TypeChunkData:
		msg = &ChunkData{}
	case TypeBlockUpdate:
		msg = &BlockUpdate{}
	case TypePlayerPosition:
		msg = &PlayerPosition{}
	default:
		return nil, fmt.Errorf("protocol: unknown message type %q", header.Type)
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("protocol: decoding %s: %w", header.Type, err)
	}
	return msg, nil
}
