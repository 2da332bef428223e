package simulation

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/quarry-gg/quarry/player"
	"github.com/quarry-gg/quarry/world"
)

type blockFunc func(pos world.BlockPos) uint16

func (f blockFunc) Block(pos world.BlockPos) uint16 {
	return f(pos)
}

var airWorld = blockFunc(func(world.BlockPos) uint16 { return 0 })

// floorWorld has solid cells everywhere below y=0.
var floorWorld = blockFunc(func(pos world.BlockPos) uint16 {
	if pos.Y < 0 {
		return 1
	}
	return 0
})

const tick = time.Second / 60

func baseState(pos mgl64.Vec3, at time.Time) ServerState {
	p := player.NewPhysicsPlayer()
	p.AABB.Pos = pos
	return ServerState{State: p, ServerTime: at}
}

func TestStepAdvancesWithoutServer(t *testing.T) {
	t0 := time.Now()
	sim := New(baseState(mgl64.Vec3{0, 5, 0}, t0), 1, DefaultOptions())

	in := player.Input{Forward: true, Flying: true}
	now := t0
	for i := 0; i < 10; i++ {
		now = now.Add(tick)
		sim.StepSimulation(in, now, airWorld)
	}

	if z := sim.Player().AABB.Pos[2]; z >= 0 {
		t.Fatalf("forward input with yaw 0 must move along -z, got z=%v", z)
	}
	if y := sim.Player().AABB.Pos[1]; y != 5 {
		t.Fatalf("flying without up or down input must hold altitude, got y=%v", y)
	}
}

func TestOpposedMovementCancels(t *testing.T) {
	t0 := time.Now()
	sim := New(baseState(mgl64.Vec3{0, 5, 0}, t0), 1, DefaultOptions())

	sim.StepSimulation(player.Input{Forward: true, Backward: true, Flying: true}, t0.Add(tick), airWorld)
	if pos := sim.Player().AABB.Pos; pos != (mgl64.Vec3{0, 5, 0}) {
		t.Fatalf("opposing movement axes must cancel, got %v", pos)
	}
}

func TestGravityPullsDown(t *testing.T) {
	t0 := time.Now()
	sim := New(baseState(mgl64.Vec3{0, 10, 0}, t0), 1, DefaultOptions())

	sim.StepSimulation(player.Input{}, t0.Add(tick), airWorld)
	p := sim.Player()
	if p.AABB.Pos[1] >= 10 {
		t.Fatalf("player in air must fall, got y=%v", p.AABB.Pos[1])
	}
	if p.Velocity[1] >= 0 {
		t.Fatalf("vertical velocity must be negative, got %v", p.Velocity[1])
	}
}

func TestRestOnFloorConverges(t *testing.T) {
	t0 := time.Now()
	sim := New(baseState(mgl64.Vec3{0.1, 5, 0.1}, t0), 1, DefaultOptions())

	now := t0
	var settled float64
	for i := 0; i < 100; i++ {
		now = now.Add(tick)
		sim.StepSimulation(player.Input{}, now, floorWorld)
		if i == 79 {
			settled = sim.Player().AABB.Pos[1]
		}
	}

	p := sim.Player()
	if p.AABB.Pos[1] < -1e-9 || p.AABB.Pos[1] > 0.0085 {
		t.Fatalf("player must rest on the floor surface, got y=%v", p.AABB.Pos[1])
	}
	if math.Abs(p.AABB.Pos[1]-settled) > 1e-9 {
		t.Fatalf("resting height must be stable, moved from %v to %v", settled, p.AABB.Pos[1])
	}
	if !p.OnGround {
		t.Fatalf("resting player must be on ground")
	}
	if p.Velocity[1] != 0 {
		t.Fatalf("resting player must have zero vertical velocity, got %v", p.Velocity[1])
	}
}

func TestJumpRequiresGround(t *testing.T) {
	t0 := time.Now()
	sim := New(baseState(mgl64.Vec3{0.1, 5, 0.1}, t0), 1, DefaultOptions())

	// Airborne jump input must not add upward velocity.
	sim.StepSimulation(player.Input{Jump: true}, t0.Add(tick), airWorld)
	if sim.Player().Velocity[1] > 0 {
		t.Fatalf("jump while airborne must not work, vy=%v", sim.Player().Velocity[1])
	}

	// Land first, then jump.
	now := t0.Add(tick)
	for i := 0; i < 60; i++ {
		now = now.Add(tick)
		sim.StepSimulation(player.Input{}, now, floorWorld)
	}
	if !sim.Player().OnGround {
		t.Fatalf("player must have landed")
	}
	sim.StepSimulation(player.Input{Jump: true}, now.Add(tick), floorWorld)
	if sim.Player().Velocity[1] <= 0 {
		t.Fatalf("grounded jump must add upward velocity, vy=%v", sim.Player().Velocity[1])
	}
}

func TestReceiveServerUpdateIgnoresStale(t *testing.T) {
	t0 := time.Now()
	sim := New(baseState(mgl64.Vec3{0, 5, 0}, t0), 1, DefaultOptions())

	fresh := baseState(mgl64.Vec3{3, 5, 3}, t0.Add(time.Second))
	stale := baseState(mgl64.Vec3{-9, -9, -9}, t0.Add(time.Millisecond))

	sim.ReceiveServerUpdate(fresh)
	sim.ReceiveServerUpdate(stale)

	// The stale snapshot must not have replaced the baseline.
	sim.StepSimulation(player.Input{Flying: true}, t0.Add(time.Second), airWorld)
	if got := sim.Player().AABB.Pos; got != fresh.State.AABB.Pos {
		t.Fatalf("expected reconciliation against the fresh snapshot, got pos %v", got)
	}
}

func TestReplayReconciliation(t *testing.T) {
	t0 := time.Now()
	start := mgl64.Vec3{0, 5, 0}
	sim := New(baseState(start, t0), 1, DefaultOptions())

	in := player.Input{Forward: true, Flying: true}
	t1, t2, t3 := t0.Add(tick), t0.Add(2*tick), t0.Add(3*tick)
	sim.StepSimulation(in, t1, airWorld)
	sim.StepSimulation(in, t2, airWorld)
	sim.StepSimulation(in, t3, airWorld)

	// One tick of flying forward at yaw 0 covers FlySpeed*dt along -z.
	dz := 15.0 * tick.Seconds()

	// The server confirms the state after the first input. The later inputs
	// are replayed on top, so the prediction must not move backwards.
	ack := baseState(start.Add(mgl64.Vec3{0, 0, -dz}), t1)
	ack.Input = in
	sim.ReceiveServerUpdate(ack)

	t4 := t0.Add(4 * tick)
	sim.StepSimulation(in, t4, airWorld)

	want := start.Add(mgl64.Vec3{0, 0, -4 * dz})
	got := sim.Player().AABB.Pos
	for axis := 0; axis < 3; axis++ {
		if math.Abs(got[axis]-want[axis]) > 1e-9 {
			t.Fatalf("replay drifted: got %v, want %v", got, want)
		}
	}
}

func TestHardSnap(t *testing.T) {
	opts := DefaultOptions()
	opts.Mode = ModeHardSnap

	t0 := time.Now()
	sim := New(baseState(mgl64.Vec3{0, 5, 0}, t0), 1, opts)

	in := player.Input{Forward: true, Flying: true}
	sim.StepSimulation(in, t0.Add(tick), airWorld)
	sim.StepSimulation(in, t0.Add(2*tick), airWorld)

	snap := baseState(mgl64.Vec3{100, 50, 100}, t0.Add(2*tick))
	sim.ReceiveServerUpdate(snap)

	// Idle flying keeps the next step from moving the snapped state.
	sim.StepSimulation(player.Input{Flying: true}, t0.Add(3*tick), airWorld)
	if got := sim.Player().AABB.Pos; got != snap.State.AABB.Pos {
		t.Fatalf("hard snap must adopt the snapshot exactly, got %v", got)
	}
}

func TestMaxTickDeltaClamp(t *testing.T) {
	t0 := time.Now()
	sim := New(baseState(mgl64.Vec3{0, 5, 0}, t0), 1, DefaultOptions())

	// A ten second stall must integrate at most MaxTickDelta seconds.
	sim.StepSimulation(player.Input{Forward: true, Flying: true}, t0.Add(10*time.Second), airWorld)

	moved := math.Abs(sim.Player().AABB.Pos[2])
	if moved > 15.0*0.25+1e-9 {
		t.Fatalf("stalled tick moved %v blocks, clamp failed", moved)
	}
}

func TestPlayerID(t *testing.T) {
	sim := New(baseState(mgl64.Vec3{}, time.Now()), 42, DefaultOptions())
	if sim.PlayerID() != 42 {
		t.Fatalf("unexpected player id %d", sim.PlayerID())
	}
}
