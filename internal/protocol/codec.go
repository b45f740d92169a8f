package protocol

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"blockworld/internal/world"
)

// CompressBlocks packs a dense column block array into zlib bytes for a
// ChunkData payload. Column data is highly repetitive (long Air and stone
// runs), so this typically shrinks it by an order of magnitude.
func CompressBlocks(blocks []world.BlockType) ([]byte, error) {
	if len(blocks) != world.ChunkVolume {
		return nil, fmt.Errorf("protocol: block array has %d cells, want %d", len(blocks), world.ChunkVolume)
	}

	raw := make([]byte, len(blocks))
	for i, b := range blocks {
		raw[i] = byte(b)
	}

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return nil, fmt.Errorf("protocol: compressing blocks: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("protocol: compressing blocks: %w", err)
	}
	return buf.Bytes(), nil
}

// DecompressBlocks unpacks a ChunkData payload back into a block array,
// verifying the exact column volume.
func DecompressBlocks(data []byte) ([]world.BlockType, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("protocol: decompressing blocks: %w", err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(io.LimitReader(zr, world.ChunkVolume+1))
	if err != nil {
		return nil, fmt.Errorf("protocol: decompressing blocks: %w", err)
	}
	if len(raw) != world.ChunkVolume {
		return nil, fmt.Errorf("protocol: decompressed %d cells, want %d", len(raw), world.ChunkVolume)
	}

	blocks := make([]world.BlockType, len(raw))
	for i, b := range raw {
		blocks[i] = world.BlockType(b)
	}
	return blocks, nil
}
