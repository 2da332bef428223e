package world

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
	"github.com/zeebo/xxh3"

	"github.com/quarry-gg/quarry/worker"
)

// DecodedChunk is one decoded chunk pair ready to be inserted into a World.
type DecodedChunk struct {
	Chunk *Chunk
	Light *LightChunk
}

// Decoder decompresses incoming chunk messages off the tick thread. Decoded
// pairs are delivered through a queue that the tick driver drains between
// ticks, so the World itself is only ever touched by one goroutine.
//
// Servers commonly resend identical terrain (flat regions, oceans), so
// decoded block payloads are cached by the hash of their compressed bytes and
// copied on a hit instead of being decompressed again.
type Decoder struct {
	log *logrus.Logger
	out chan DecodedChunk

	cMu   deadlock.RWMutex
	cache map[uint64]*cachedPayload

	stop chan struct{}
}

type cachedPayload struct {
	blocks  [ChunkVolume]uint16
	lastHit time.Time
}

const decoderQueueSize = 256

// NewDecoder returns a running decoder. Close must be called when the owning
// session ends.
func NewDecoder(log *logrus.Logger) *Decoder {
	d := &Decoder{
		log:   log,
		out:   make(chan DecodedChunk, decoderQueueSize),
		cache: make(map[uint64]*cachedPayload),
		stop:  make(chan struct{}),
	}
	go d.sweepCache()
	return d
}

// Enqueue schedules the chunk message for decoding. The decoded pair becomes
// visible to Drain once a worker has processed it.
func (d *Decoder) Enqueue(msg ChunkMessage) {
	select {
	case <-d.stop:
		return
	default:
	}
	worker.Submit(func() {
		d.decode(msg)
	})
}

// Drain applies every chunk pair decoded so far and returns without blocking.
// It is called by the tick driver between ticks.
func (d *Decoder) Drain(apply func(DecodedChunk)) {
	for {
		select {
		case dc := <-d.out:
			apply(dc)
		default:
			return
		}
	}
}

// Close stops the decoder. Chunk messages still in flight are discarded.
func (d *Decoder) Close() {
	select {
	case <-d.stop:
	default:
		close(d.stop)
	}
}

func (d *Decoder) decode(msg ChunkMessage) {
	chunk, ok := d.decodeBlocks(msg.Chunk)
	if !ok {
		return
	}
	light, err := msg.Light.Decode()
	if err != nil {
		d.log.Warnf("dropping chunk message: %v", err)
		return
	}

	select {
	case d.out <- DecodedChunk{Chunk: chunk, Light: light}:
	case <-d.stop:
	}
}

func (d *Decoder) decodeBlocks(cc CompressedChunk) (*Chunk, bool) {
	hash := xxh3.Hash(cc.Payload)

	d.cMu.RLock()
	cached, found := d.cache[hash]
	d.cMu.RUnlock()
	if found {
		chunk := NewChunk(cc.Pos)
		chunk.blocks = cached.blocks
		d.cMu.Lock()
		cached.lastHit = time.Now()
		d.cMu.Unlock()
		return chunk, true
	}

	chunk, err := cc.Decode()
	if err != nil {
		d.log.Warnf("dropping chunk message: %v", err)
		return nil, false
	}

	d.cMu.Lock()
	d.cache[hash] = &cachedPayload{blocks: chunk.blocks, lastHit: time.Now()}
	d.cMu.Unlock()
	return chunk, true
}

// sweepCache periodically drops cached payloads that have not been hit for a
// while, so a player travelling through varied terrain does not pin old
// chunk data in memory.
func (d *Decoder) sweepCache() {
	defer func() {
		if err := recover(); err != nil {
			hub := sentry.CurrentHub().Clone()
			hub.Recover(err)
			hub.Flush(time.Second * 5)
		}
	}()

	t := time.NewTicker(time.Second * 30)
	defer t.Stop()

	for {
		select {
		case <-d.stop:
			return
		case now := <-t.C:
			d.cMu.Lock()
			for hash, cached := range d.cache {
				if now.Sub(cached.lastHit) > time.Minute {
					delete(d.cache, hash)
				}
			}
			d.cMu.Unlock()
		}
	}
}
