package settings

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml"

	"github.com/quarry-gg/quarry/game"
	"github.com/quarry-gg/quarry/player"
	"github.com/quarry-gg/quarry/simulation"
)

// Settings contains everything that can be configured for a play session.
type Settings struct {
	RenderDistance struct {
		XMax, XMin int64
		YMax, YMin int64
		ZMax, ZMin int64
	}
	Physics struct {
		// Reconciliation is either "replay" or "snap".
		Reconciliation string
		Gravity        float64
		WalkSpeed      float64
		FlySpeed       float64
		JumpSpeed      float64
	}
	Debug struct {
		// Statsview serves a runtime metrics viewer on StatsviewAddr.
		Statsview     bool
		StatsviewAddr string
	}
}

// DefaultSettings returns the standard configuration.
func DefaultSettings() Settings {
	s := Settings{}
	s.RenderDistance.XMax, s.RenderDistance.XMin = 8, 8
	s.RenderDistance.YMax, s.RenderDistance.YMin = 4, 4
	s.RenderDistance.ZMax, s.RenderDistance.ZMin = 8, 8

	s.Physics.Reconciliation = "replay"
	s.Physics.Gravity = game.NormalGravity
	s.Physics.WalkSpeed = game.DefaultWalkSpeed
	s.Physics.FlySpeed = game.DefaultFlySpeed
	s.Physics.JumpSpeed = game.DefaultJumpSpeed

	s.Debug.StatsviewAddr = "localhost:18066"
	return s
}

// SaveDefault will create and save the default settings file. If the file
// already exists, it will return an error.
func SaveDefault(path string) error {
	s := DefaultSettings()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if data, err := toml.Marshal(s); err != nil {
			return fmt.Errorf("failed encoding default settings: %v", err)
		} else if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed creating settings file: %v", err)
		}
		return nil
	}
	return errors.New("settings file already exists")
}

// Load will load the settings from your settings file, and return an error
// if the file does not exist.
func Load(path string) (Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Settings{}, errors.New("settings file doesn't exist")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("error reading settings: %v", err)
	}

	var settings Settings
	if err = toml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("error decoding settings: %v", err)
	}
	return settings, nil
}

// PlayerRenderDistance converts the configured bounds to the policy type.
func (s Settings) PlayerRenderDistance() player.RenderDistance {
	return player.RenderDistance{
		XMax: s.RenderDistance.XMax, XMin: s.RenderDistance.XMin,
		YMax: s.RenderDistance.YMax, YMin: s.RenderDistance.YMin,
		ZMax: s.RenderDistance.ZMax, ZMin: s.RenderDistance.ZMin,
	}
}

// SimulationOptions converts the physics tuning to simulation options.
func (s Settings) SimulationOptions() simulation.Options {
	opts := simulation.DefaultOptions()
	if s.Physics.Reconciliation == "snap" {
		opts.Mode = simulation.ModeHardSnap
	}
	if s.Physics.Gravity > 0 {
		opts.Gravity = s.Physics.Gravity
	}
	if s.Physics.WalkSpeed > 0 {
		opts.WalkSpeed = s.Physics.WalkSpeed
	}
	if s.Physics.FlySpeed > 0 {
		opts.FlySpeed = s.Physics.FlySpeed
	}
	if s.Physics.JumpSpeed > 0 {
		opts.JumpSpeed = s.Physics.JumpSpeed
	}
	return opts
}
