package simulation

import (
	"time"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/quarry-gg/quarry/game"
	"github.com/quarry-gg/quarry/player"
)

// PlayerID identifies the locally controlled actor within a session.
type PlayerID uint64

// ServerState is an authoritative snapshot of the player's physics: where the
// server says the actor actually is, the server-side time the state
// corresponds to, and the input that produced it. Immutable once received.
type ServerState struct {
	State      player.PhysicsPlayer
	ServerTime time.Time
	Input      player.Input
}

// Mode selects how an authoritative snapshot is merged into the predicted
// state.
type Mode uint8

const (
	// ModeReplay rebases the prediction onto the snapshot and replays every
	// buffered input issued after the snapshot's server time. This hides
	// the correction instead of rubber-banding the player.
	ModeReplay Mode = iota
	// ModeHardSnap discards the prediction and adopts the snapshot as is.
	ModeHardSnap
)

// Options tune the local physics step and the reconciliation strategy.
type Options struct {
	Mode Mode

	Gravity   float64
	WalkSpeed float64
	FlySpeed  float64
	JumpSpeed float64

	// MaxTickDelta caps the seconds simulated in one step so that a long
	// stall does not turn into one enormous integration step.
	MaxTickDelta float64
}

// DefaultOptions returns the standard tuning.
func DefaultOptions() Options {
	return Options{
		Mode:         ModeReplay,
		Gravity:      game.NormalGravity,
		WalkSpeed:    game.DefaultWalkSpeed,
		FlySpeed:     game.DefaultFlySpeed,
		JumpSpeed:    game.DefaultJumpSpeed,
		MaxTickDelta: 0.25,
	}
}

// ClientPhysicsSimulation owns the locally predicted player state and
// reconciles it against authoritative snapshots. Every tick it advances the
// prediction optimistically from local input alone; it never waits for the
// server.
//
// StepSimulation and ReceiveServerUpdate must be called from the tick
// goroutine only. Snapshots arriving on another thread go through a queue
// drained between ticks (see the session package).
type ClientPhysicsSimulation struct {
	id   PlayerID
	opts Options

	current    player.PhysicsPlayer
	lastServer ServerState
	lastStep   time.Time

	// inputs buffers every input not yet acknowledged by the server, in
	// send order, keyed by the local time it was simulated at.
	inputs *orderedmap.OrderedMap[time.Time, player.Input]

	needsReconcile bool
}

// New creates a simulation seeded from an initial authoritative state.
func New(initial ServerState, id PlayerID, opts Options) *ClientPhysicsSimulation {
	return &ClientPhysicsSimulation{
		id:         id,
		opts:       opts,
		current:    initial.State,
		lastServer: initial,
		lastStep:   initial.ServerTime,
		inputs:     orderedmap.NewOrderedMap[time.Time, player.Input](),
	}
}

// PlayerID returns the identity of the locally controlled actor.
func (s *ClientPhysicsSimulation) PlayerID() PlayerID {
	return s.id
}

// StepSimulation advances the predicted player by one tick using the given
// input against the given world. Pending server corrections are merged first,
// at this safe point, so a snapshot can never interleave with a running step.
func (s *ClientPhysicsSimulation) StepSimulation(input player.Input, now time.Time, src game.BlockSource) {
	if s.needsReconcile {
		s.reconcile(src)
		s.needsReconcile = false
	}

	dt := game.ClampFloat(now.Sub(s.lastStep).Seconds(), 0, s.opts.MaxTickDelta)
	s.lastStep = now
	s.inputs.Set(now, input)

	stepPlayer(&s.current, input, dt, src, s.opts)
}

// ReceiveServerUpdate stores the snapshot as the new reconciliation baseline.
// A snapshot older than the current baseline is ignored: reconciliation never
// regresses. The correction itself is applied on the next StepSimulation.
func (s *ClientPhysicsSimulation) ReceiveServerUpdate(state ServerState) {
	if state.ServerTime.Before(s.lastServer.ServerTime) {
		return
	}
	s.lastServer = state
	s.needsReconcile = true

	// Inputs at or before the snapshot's time are acknowledged; only the
	// ones after it still need replaying.
	for el := s.inputs.Front(); el != nil; {
		next := el.Next()
		if el.Key.After(state.ServerTime) {
			break
		}
		s.inputs.Delete(el.Key)
		el = next
	}
}

// reconcile rebases the prediction onto the last received snapshot.
func (s *ClientPhysicsSimulation) reconcile(src game.BlockSource) {
	if s.opts.Mode == ModeHardSnap {
		s.current = s.lastServer.State
		for s.inputs.Len() > 0 {
			s.inputs.Delete(s.inputs.Front().Key)
		}
		return
	}

	predicted := s.lastServer.State
	prev := s.lastServer.ServerTime
	for el := s.inputs.Front(); el != nil; el = el.Next() {
		dt := game.ClampFloat(el.Key.Sub(prev).Seconds(), 0, s.opts.MaxTickDelta)
		stepPlayer(&predicted, el.Value, dt, src, s.opts)
		prev = el.Key
	}
	s.current = predicted
}

// Player returns the current predicted player state.
func (s *ClientPhysicsSimulation) Player() player.PhysicsPlayer {
	return s.current
}

// CameraPosition returns the camera position of the predicted player.
func (s *ClientPhysicsSimulation) CameraPosition() mgl64.Vec3 {
	return s.current.CameraPosition()
}
