package netgame

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"blockworld/internal/protocol"
	"blockworld/internal/world"
)

func newTestSession() *session {
	return &session{out: make(chan []byte, sessionBuffer)}
}

func TestSendChunkGeneratesOnDemand(t *testing.T) {
	s := NewServer("127.0.0.1:0", 1337, nil)
	sess := newTestSession()
	pos := world.ChunkPos{X: 2, Z: -3}

	s.sendChunk(sess, pos)

	if !s.World().HasChunk(pos) {
		t.Fatal("requested column was not generated into the world")
	}

	var frame []byte
	select {
	case frame = <-sess.out:
	default:
		t.Fatal("no frame queued for the session")
	}

	msg, err := protocol.Decode(frame)
	if err != nil {
		t.Fatalf("decoding served frame: %v", err)
	}
	cd, ok := msg.(*protocol.ChunkData)
	if !ok {
		t.Fatalf("served frame is %T, want ChunkData", msg)
	}
	if cd.Pos.ToWorld() != pos {
		t.Fatalf("served position %v, want %v", cd.Pos, pos)
	}

	blocks, err := protocol.DecompressBlocks(cd.Blocks)
	if err != nil {
		t.Fatalf("decompressing served blocks: %v", err)
	}
	authoritative := s.World().GetChunk(pos).Blocks()
	for i := range blocks {
		if blocks[i] != authoritative[i] {
			t.Fatalf("served blocks diverge from the world at cell %d", i)
		}
	}

	// A second request serves the cached column, not a regenerated one.
	before := s.World().GetChunk(pos)
	s.sendChunk(newTestSession(), pos)
	if s.World().GetChunk(pos) != before {
		t.Fatal("repeated request regenerated the column")
	}
}

func TestBlockUpdateBroadcastSkipsSource(t *testing.T) {
	s := NewServer("127.0.0.1:0", 1, nil)
	src := newTestSession()
	other := newTestSession()
	s.addSession(src)
	s.addSession(other)

	update := &protocol.BlockUpdate{Type: protocol.TypeBlockUpdate, X: 5, Y: 60, Z: 5, NewType: uint8(world.BlockTypeDirt)}
	s.handleMessage(src, update)

	if got := s.World().GetBlock(5, 60, 5); got != world.BlockTypeDirt {
		t.Fatalf("authoritative world not updated: %v", got)
	}
	select {
	case <-src.out:
		t.Fatal("update echoed back to its source")
	default:
	}
	select {
	case frame := <-other.out:
		msg, err := protocol.Decode(frame)
		if err != nil {
			t.Fatalf("decoding broadcast: %v", err)
		}
		if _, ok := msg.(*protocol.BlockUpdate); !ok {
			t.Fatalf("broadcast frame is %T", msg)
		}
	default:
		t.Fatal("update not broadcast to the other session")
	}
}

func TestClientConnectSetsName(t *testing.T) {
	s := NewServer("127.0.0.1:0", 1, nil)
	sess := newTestSession()
	sess.name = "player"

	s.handleMessage(sess, &protocol.ClientConnect{Type: protocol.TypeClientConnect, PlayerName: "alex"})
	if sess.name != "alex" {
		t.Fatalf("session name = %q, want alex", sess.name)
	}

	// An empty name keeps the previous one.
	s.handleMessage(sess, &protocol.ClientConnect{Type: protocol.TypeClientConnect})
	if sess.name != "alex" {
		t.Fatalf("empty name overwrote session name: %q", sess.name)
	}
}

func TestSlowSessionDropsFrames(t *testing.T) {
	sess := &session{out: make(chan []byte, 1)}
	sess.send([]byte("a"))
	// Must not block with the buffer full.
	sess.send([]byte("b"))
	if got := len(sess.out); got != 1 {
		t.Fatalf("queue length = %d, want 1", got)
	}
}

func TestServeChunkOverWebsocket(t *testing.T) {
	s := NewServer("127.0.0.1:0", 1337, nil)
	ts := httptest.NewServer(http.HandlerFunc(s.handleWS))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing %s: %v", url, err)
	}
	defer conn.Close()

	req, err := protocol.Encode(&protocol.ChunkRequest{
		Type:      protocol.TypeChunkRequest,
		Positions: []protocol.ChunkPos{{X: 0, Z: 0}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, req); err != nil {
		t.Fatalf("sending request: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading response: %v", err)
	}
	msg, err := protocol.Decode(raw)
	if err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	cd, ok := msg.(*protocol.ChunkData)
	if !ok {
		t.Fatalf("response is %T, want ChunkData", msg)
	}
	if cd.Pos != (protocol.ChunkPos{X: 0, Z: 0}) {
		t.Fatalf("response position %v", cd.Pos)
	}
	if _, err := protocol.DecompressBlocks(cd.Blocks); err != nil {
		t.Fatalf("response payload: %v", err)
	}
}
