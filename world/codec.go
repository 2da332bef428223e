package world

import (
	"bytes"
	"encoding/binary"

	"github.com/klauspost/compress/zstd"

	"github.com/quarry-gg/quarry/internal"
	"github.com/quarry-gg/quarry/qerror"
)

// CompressedChunk is the logical shape of a chunk as it arrives from the
// transport: a chunk position and a zstd compressed little-endian block id
// payload. The byte layout on the wire itself is owned by the transport.
type CompressedChunk struct {
	Pos     ChunkPos
	Payload []byte
}

// CompressedLightChunk is the compressed form of a LightChunk.
type CompressedLightChunk struct {
	Pos     ChunkPos
	Payload []byte
}

// ChunkMessage is one chunk delivery from the server. The chunk and its light
// chunk always travel together so that the pairing invariant can be kept on
// insertion.
type ChunkMessage struct {
	Chunk CompressedChunk
	Light CompressedLightChunk
}

var (
	chunkEncoder *zstd.Encoder
	chunkDecoder *zstd.Decoder
)

func init() {
	var err error
	if chunkEncoder, err = zstd.NewWriter(nil); err != nil {
		panic(qerror.New("creating chunk encoder: %v", err))
	}
	if chunkDecoder, err = zstd.NewReader(nil); err != nil {
		panic(qerror.New("creating chunk decoder: %v", err))
	}
}

// Compress returns the compressed form of the chunk.
func (c *Chunk) Compress() CompressedChunk {
	buf := internal.BufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer internal.BufferPool.Put(buf)

	var scratch [2]byte
	for _, id := range c.blocks {
		binary.LittleEndian.PutUint16(scratch[:], id)
		buf.Write(scratch[:])
	}
	return CompressedChunk{Pos: c.Pos, Payload: chunkEncoder.EncodeAll(buf.Bytes(), nil)}
}

// Decode decompresses the chunk payload. It fails only on corrupt input,
// which indicates a transport bug rather than an absent-data condition.
func (c CompressedChunk) Decode() (*Chunk, error) {
	raw, err := chunkDecoder.DecodeAll(c.Payload, nil)
	if err != nil {
		return nil, qerror.New("decompressing chunk %v: %v", c.Pos, err)
	}
	if len(raw) != ChunkVolume*2 {
		return nil, qerror.New("chunk %v has payload of %d bytes, expected %d", c.Pos, len(raw), ChunkVolume*2)
	}

	chunk := NewChunk(c.Pos)
	for i := range chunk.blocks {
		chunk.blocks[i] = binary.LittleEndian.Uint16(raw[i*2:])
	}
	return chunk, nil
}

// Compress returns the compressed form of the light chunk.
func (c *LightChunk) Compress() CompressedLightChunk {
	return CompressedLightChunk{Pos: c.Pos, Payload: chunkEncoder.EncodeAll(c.light[:], nil)}
}

// Decode decompresses the light chunk payload.
func (c CompressedLightChunk) Decode() (*LightChunk, error) {
	raw, err := chunkDecoder.DecodeAll(c.Payload, nil)
	if err != nil {
		return nil, qerror.New("decompressing light chunk %v: %v", c.Pos, err)
	}
	if len(raw) != ChunkVolume {
		return nil, qerror.New("light chunk %v has payload of %d bytes, expected %d", c.Pos, len(raw), ChunkVolume)
	}

	light := NewLightChunk(c.Pos)
	copy(light.light[:], raw)
	return light, nil
}
