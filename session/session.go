package session

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"github.com/quarry-gg/quarry/assert"
	"github.com/quarry-gg/quarry/game"
	"github.com/quarry-gg/quarry/player"
	"github.com/quarry-gg/quarry/simulation"
	"github.com/quarry-gg/quarry/world"
)

// PerfFunc receives the duration of one named section of an update pass.
// It is an optional observer for debug overlays and frame timing breakdowns;
// a nil PerfFunc disables all recording.
type PerfFunc func(section string, d time.Duration)

// BlockAction is a block interaction intent resolved against the world.
type BlockAction uint8

const (
	ActionBreak BlockAction = iota
	ActionPlace
	ActionSelect
)

// Config carries everything a session needs at creation time.
type Config struct {
	RenderDistance player.RenderDistance
	Options        simulation.Options
	Log            *logrus.Logger

	// Perf, OnChunkLoaded and OnChunkEvicted are optional observer hooks
	// for telemetry and for a renderer-shaped consumer. All may be nil.
	Perf           PerfFunc
	OnChunkLoaded  func(pos world.ChunkPos)
	OnChunkEvicted func(pos world.ChunkPos)

	// OnBlockAction receives block interaction intents resolved against
	// the currently pointed block. The transport layer turns these into
	// outbound messages. May be nil.
	OnBlockAction func(action BlockAction, pos world.BlockPos, face game.Face)
}

// Session is the tick driver of one play session. It exclusively owns the
// world, the physics simulation and the eviction policy for the duration of
// every tick; the decode queue and the snapshot queue are the only
// cross-thread boundaries, and both are drained at the safe point between
// ticks.
type Session struct {
	log  *logrus.Logger
	conf Config

	world   *world.World
	sim     *simulation.ClientPhysicsSimulation
	decoder *world.Decoder

	snapshots chan simulation.ServerState

	closed bool
}

const snapshotQueueSize = 16

// New creates a session for the given actor, seeded with the initial
// authoritative state.
func New(initial simulation.ServerState, id simulation.PlayerID, conf Config) *Session {
	log := conf.Log
	if log == nil {
		log = logrus.New()
	}
	return &Session{
		log:       log,
		conf:      conf,
		world:     world.New(),
		sim:       simulation.New(initial, id, conf.Options),
		decoder:   world.NewDecoder(log),
		snapshots: make(chan simulation.ServerState, snapshotQueueSize),
	}
}

// World returns the session's world. The caller must only touch it from the
// tick goroutine.
func (s *Session) World() *world.World {
	return s.world
}

// SetRenderDistance replaces the relevance bounds, effective from the next
// update.
func (s *Session) SetRenderDistance(rd player.RenderDistance) {
	s.conf.RenderDistance = rd
}

// QueueChunk hands an incoming chunk message to the background decoder. The
// decoded chunk becomes resident during a later Update call.
func (s *Session) QueueChunk(msg world.ChunkMessage) {
	s.decoder.Enqueue(msg)
}

// QueueServerUpdate buffers an authoritative snapshot for the next Update
// call. Safe to call from the transport goroutine. If the queue is full the
// oldest snapshot is dropped in favor of the new one: the newest snapshot
// supersedes everything before it.
func (s *Session) QueueServerUpdate(state simulation.ServerState) {
	for {
		select {
		case s.snapshots <- state:
			return
		default:
		}
		select {
		case <-s.snapshots:
		default:
		}
	}
}

// Update runs one logical tick: chunk intake, snapshot reconciliation, the
// physics step, then eviction of chunks outside the render distance. It must
// be called from a single goroutine and completes fully before returning, so
// state read afterwards (camera, raycast) is never torn.
func (s *Session) Update(input player.Input, now time.Time) {
	if s.closed {
		return
	}
	last := time.Now()

	s.decoder.Drain(func(dc world.DecodedChunk) {
		s.world.SetChunk(dc.Chunk)
		s.world.SetLightChunk(dc.Light)
		assert.IsTrue(s.world.HasLightChunk(dc.Chunk.Pos), "chunk %v inserted without light chunk", dc.Chunk.Pos)
		if s.conf.OnChunkLoaded != nil {
			s.conf.OnChunkLoaded(dc.Chunk.Pos)
		}
	})
	last = s.record(last, "chunk intake")

	for {
		select {
		case state := <-s.snapshots:
			s.sim.ReceiveServerUpdate(state)
			continue
		default:
		}
		break
	}
	last = s.record(last, "server reconcile")

	s.sim.StepSimulation(input, now, s.world)
	last = s.record(last, "physics step")

	s.dispatchBlockActions(input)

	playerChunk := world.BlockPosFromVec3(s.sim.CameraPosition()).ContainingChunkPos()
	s.world.Retain(func(pos world.ChunkPos) bool {
		if s.conf.RenderDistance.IsChunkVisible(playerChunk, pos) {
			return true
		}
		if s.conf.OnChunkEvicted != nil {
			s.conf.OnChunkEvicted(pos)
		}
		return false
	})
	s.record(last, "drop far chunks")
}

// CameraPosition returns the camera position of the predicted player.
func (s *Session) CameraPosition() mgl64.Vec3 {
	return s.sim.CameraPosition()
}

// Player returns the current predicted player state.
func (s *Session) Player() player.PhysicsPlayer {
	return s.sim.Player()
}

// PointedBlock returns the block the player is looking at given the current
// view rotation in degrees.
func (s *Session) PointedBlock(yaw, pitch float64) (world.BlockPos, game.Face, bool) {
	p := s.sim.Player()
	return p.SelectedBlock(s.world, yaw, pitch)
}

// Close ends the session: the decoder stops, pending snapshots are
// discarded and the world is dropped. No state leaks into a later session.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.decoder.Close()
	for {
		select {
		case <-s.snapshots:
			continue
		default:
		}
		break
	}
	s.world.Clear()
}

// dispatchBlockActions resolves the tick's interaction intents against the
// pointed block. Intents with nothing in reach are dropped, as are all
// intents when no hook is configured.
func (s *Session) dispatchBlockActions(input player.Input) {
	if s.conf.OnBlockAction == nil {
		return
	}
	if !input.BreakBlock && !input.PlaceBlock && !input.SelectBlock {
		return
	}
	pos, face, ok := s.PointedBlock(input.Yaw, input.Pitch)
	if !ok {
		return
	}
	if input.BreakBlock {
		s.conf.OnBlockAction(ActionBreak, pos, face)
	}
	if input.PlaceBlock {
		s.conf.OnBlockAction(ActionPlace, pos, face)
	}
	if input.SelectBlock {
		s.conf.OnBlockAction(ActionSelect, pos, face)
	}
}

func (s *Session) record(last time.Time, section string) time.Time {
	now := time.Now()
	if s.conf.Perf != nil {
		s.conf.Perf(section, now.Sub(last))
	}
	return now
}
