package player

// Input is the intent of the player for one tick. It is produced by the input
// layer every frame and consumed exactly once by the simulation step.
type Input struct {
	// Movement axes, relative to the view direction.
	Forward, Backward bool
	Left, Right       bool

	// Action flags. Jump doubles as "ascend" while flying, Sneak as
	// "descend".
	Jump  bool
	Sneak bool
	// Flying disables gravity and enables vertical movement. Toggled by
	// the input layer, not by the physics core.
	Flying bool

	// Absolute view rotation in degrees.
	Yaw   float64
	Pitch float64

	// Block interaction intents. The physics step ignores these; the tick
	// driver resolves them against the pointed block and hands them to the
	// outbound hook.
	BreakBlock  bool
	PlaceBlock  bool
	SelectBlock bool
}

// Moving returns whether any movement axis is pressed.
func (i Input) Moving() bool {
	return i.Forward || i.Backward || i.Left || i.Right
}
