package main

import (
	"flag"
	"math"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/closer"
	"go.uber.org/zap"

	"blockworld/internal/config"
	"blockworld/internal/game"
	"blockworld/internal/meshing"
	"blockworld/internal/netgame"
	"blockworld/internal/physics"
	"blockworld/internal/profiling"
	"blockworld/internal/world"
)

// The bot is a headless client: it connects to a server, wanders, digs the
// occasional block and runs the full chunk-loading and mesh pipeline against
// a stats-only renderer. Useful for soaking the server and profiling the
// mesh path without a GPU.
func main() {
	var (
		configPath = flag.String("config", "", "path to YAML config")
		name       = flag.String("name", "bot", "player name")
	)
	flag.Parse()

	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("loading config", zap.Error(err))
	}

	w := world.New()
	loader := world.NewChunkLoader(w, float64(cfg.LoadDistance), float64(cfg.UnloadDistance), log)
	builder := meshing.NewAsyncChunkMeshBuilder(w, meshing.MeshOptions{
		AmbientOcclusion: cfg.Mesh.AmbientOcclusion,
		AOStrength:       cfg.Mesh.AOStrength,
	}, cfg.Mesh.Workers, cfg.Mesh.FrameBudget, log)
	renderer := &statsRenderer{log: log, world: w}
	engine := game.NewEngine(w, loader, builder, renderer, log)

	client, err := netgame.Connect(cfg.Network.Addr(), *name, engine, log)
	if err != nil {
		log.Fatal("connecting", zap.Error(err))
	}
	loader.OnChunkRequestNeeded = client.RequestChunks

	closer.Bind(func() {
		client.Close()
		engine.Shutdown()
	})

	go run(cfg, engine, client, log)
	closer.Hold()
}

func run(cfg *config.Config, engine *game.Engine, client *netgame.Client, log *zap.Logger) {
	tick := time.Second / time.Duration(cfg.TickRate)
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	pos := mgl32.Vec3{0, 70, 0}
	heading := rng.Float64() * 2 * math.Pi
	lastStats := time.Now()

	const (
		bodyHalfWidth = 0.3
		bodyHeight    = 1.8
		eyeHeight     = 1.6
	)

	for range ticker.C {
		profiling.ResetTick()

		// Random walk with a slowly drifting heading; a blocked step just
		// turns the bot around.
		heading += (rng.Float64() - 0.5) * 0.3
		step := mgl32.Vec3{
			float32(math.Cos(heading)) * 1.5,
			0,
			float32(math.Sin(heading)) * 1.5,
		}
		next := pos.Add(step)
		if ground, ok := physics.FindGroundLevel(next.X(), next.Z(), next.Y()+10, engine.World()); ok {
			next[1] = ground
		}
		if physics.Collides(next, bodyHalfWidth, bodyHeight, engine.World()) {
			heading += math.Pi
		} else {
			pos = next
		}

		engine.SetPlayerView(pos, mgl32.Vec2{0, float32(heading)})
		client.SendPosition(pos.X(), pos.Y(), pos.Z())

		// Occasionally look down ahead and dig whatever the ray hits.
		if rng.Float64() < 0.05 {
			eye := pos.Add(mgl32.Vec3{0, eyeHeight, 0})
			dir := mgl32.Vec3{
				float32(math.Cos(heading)),
				-1,
				float32(math.Sin(heading)),
			}.Normalize()
			hit := physics.Raycast(eye, dir, physics.MinReachDistance, physics.MaxReachDistance, engine.World())
			if hit.Hit {
				x, y, z := hit.HitPosition[0], hit.HitPosition[1], hit.HitPosition[2]
				engine.SelectBlock(x, y, z, true)
				engine.NotifyBlockUpdate(x, y, z, world.BlockTypeAir)
				client.SendBlockUpdate(x, y, z, world.BlockTypeAir)
			}
		}

		engine.Update(tick.Seconds())

		if time.Since(lastStats) > 5*time.Second {
			lastStats = time.Now()
			log.Info("bot tick",
				zap.Int("chunks", engine.World().ChunkCount()),
				zap.Duration("physics", profiling.SumWithPrefix("physics.")),
				zap.String("hot", profiling.TopN(3)))
		}
	}
}
