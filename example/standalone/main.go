// Command standalone runs the physics core headless against locally generated
// flat terrain, standing in for the transport: it feeds chunk messages and
// synthetic authoritative snapshots into a session and walks the player
// around, logging what the simulation sees.
package main

import (
	"log"
	"os"
	"time"

	"github.com/restartfu/gophig"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/sirupsen/logrus"

	"github.com/quarry-gg/quarry/player"
	"github.com/quarry-gg/quarry/session"
	"github.com/quarry-gg/quarry/settings"
	"github.com/quarry-gg/quarry/simulation"
	"github.com/quarry-gg/quarry/world"
)

const floorLevel = 50

func main() {
	conf := readConfig()

	s, err := settings.Load(conf.SettingsPath)
	if err != nil {
		if err = settings.SaveDefault(conf.SettingsPath); err != nil {
			log.Fatalf("error creating settings: %v", err)
		}
		s, _ = settings.Load(conf.SettingsPath)
	}

	logger := logrus.New()
	logger.Formatter = &logrus.TextFormatter{ForceColors: true}

	if s.Debug.Statsview {
		viewer.SetConfiguration(viewer.WithAddr(s.Debug.StatsviewAddr))
		mgr := statsview.New()
		go mgr.Start()
		logger.Infof("statsview listening on %v", s.Debug.StatsviewAddr)
	}

	start := time.Now()
	initial := simulation.ServerState{
		State:      player.NewPhysicsPlayer(),
		ServerTime: start,
	}
	sess := session.New(initial, 1, session.Config{
		RenderDistance: s.PlayerRenderDistance(),
		Options:        s.SimulationOptions(),
		Log:            logger,
		OnChunkLoaded: func(pos world.ChunkPos) {
			logger.Debugf("chunk %v resident", pos)
		},
	})
	defer sess.Close()

	// Terrain around spawn: a flat stone floor below floorLevel.
	for x := int64(-2); x <= 2; x++ {
		for y := int64(0); y <= 2; y++ {
			for z := int64(-2); z <= 2; z++ {
				sess.QueueChunk(flatChunkMessage(world.ChunkPos{X: x, Y: y, Z: z}))
			}
		}
	}

	tick := time.NewTicker(time.Second / time.Duration(conf.TickRate))
	defer tick.Stop()

	input := player.Input{Forward: true, Yaw: 45}
	for i := 0; i < conf.Ticks; i++ {
		now := <-tick.C
		sess.Update(input, now)

		// The transport would deliver these; fake a snapshot that trails
		// the prediction by confirming the state we had a moment ago.
		if i%conf.SnapshotInterval == 0 {
			sess.QueueServerUpdate(simulation.ServerState{
				State:      sess.Player(),
				ServerTime: now,
				Input:      input,
			})
		}

		if i%conf.TickRate == 0 {
			p := sess.CameraPosition()
			logger.Infof("camera x=%.2f y=%.2f z=%.2f chunks=%d", p[0], p[1], p[2], sess.World().ChunkCount())
			if pos, face, ok := sess.PointedBlock(input.Yaw, -60); ok {
				logger.Infof("pointed block (%d, %d, %d) face %v", pos.X, pos.Y, pos.Z, face)
			}
		}
	}
}

// flatChunkMessage builds the compressed chunk message a server would send
// for the given chunk position: stone up to floorLevel, air and full daylight
// above.
func flatChunkMessage(pos world.ChunkPos) world.ChunkMessage {
	chunk := world.NewChunk(pos)
	light := world.NewLightChunk(pos)
	for x := 0; x < world.ChunkSize; x++ {
		for y := 0; y < world.ChunkSize; y++ {
			worldY := pos.Y*world.ChunkSize + int64(y)
			for z := 0; z < world.ChunkSize; z++ {
				if worldY <= floorLevel {
					chunk.SetBlock(x, y, z, 1)
				} else {
					light.SetLight(x, y, z, 15)
				}
			}
		}
	}
	return world.ChunkMessage{Chunk: chunk.Compress(), Light: light.Compress()}
}

type config struct {
	SettingsPath     string
	TickRate         int
	Ticks            int
	SnapshotInterval int
}

func readConfig() config {
	var c config
	if _, err := os.Stat("config.toml"); os.IsNotExist(err) {
		if err := gophig.SetConfComplex("config.toml", gophig.TOMLMarshaler{}, c, 0777); err != nil {
			log.Fatalf("error creating config: %v", err)
		}
	}
	if err := gophig.GetConfComplex("config.toml", gophig.TOMLMarshaler{}, &c); err != nil {
		log.Fatalf("error reading config: %v", err)
	}
	if c.SettingsPath == "" {
		c.SettingsPath = "settings.toml"
	}
	if c.TickRate == 0 {
		c.TickRate = 60
	}
	if c.Ticks == 0 {
		c.Ticks = 600
	}
	if c.SnapshotInterval == 0 {
		c.SnapshotInterval = 20
	}
	if err := gophig.SetConfComplex("config.toml", gophig.TOMLMarshaler{}, c, 0777); err != nil {
		log.Fatalf("error writing config file: %v", err)
	}
	return c
}
