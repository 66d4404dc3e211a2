package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	apirest "github.com/overdrive-game/hordeai/api/rest"
	"github.com/overdrive-game/hordeai/bus"
	"github.com/overdrive-game/hordeai/config"
	"github.com/overdrive-game/hordeai/events"
	"github.com/overdrive-game/hordeai/game/nav"
	"github.com/overdrive-game/hordeai/game/spawn"
	"github.com/overdrive-game/hordeai/game/world"
	"github.com/overdrive-game/hordeai/geom"
	mw "github.com/overdrive-game/hordeai/middleware"
	"github.com/overdrive-game/hordeai/scheduler"
)

// headlessView is the WorldView used when the AI core runs standalone:
// no player, unobstructed sight, walkability from the shared grid. A host
// game embeds the director with its own view instead.
type headlessView struct {
	grid *nav.Grid
}

func (v *headlessView) PlayerPosition() (geom.Vec3, bool) { return geom.Vec3{}, false }
func (v *headlessView) PlayerVelocity() (geom.Vec3, bool) { return geom.Vec3{}, false }
func (v *headlessView) NearbyTargets(geom.Vec3, float64) []world.TargetInfo {
	return nil
}
func (v *headlessView) Target(world.TargetID) (world.TargetInfo, bool) {
	return world.TargetInfo{}, false
}
func (v *headlessView) HasLineOfSight(a, b geom.Vec3) bool { return true }
func (v *headlessView) IsCellWalkable(c nav.Cell) bool     { return v.grid.Walkable(c) }

func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.Server.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Fatalf("logger: %v", logErr)
	}
	defer logger.Sync()

	if cfg.Server.AdminKey == "" {
		logger.Warn("server.admin_key is not set; mutating diagnostics endpoints are disabled")
	}

	// ---- Event bus ----
	ps, err := bus.New(bus.Config{
		RedisAddr:     cfg.Bus.RedisAddr,
		RedisPassword: cfg.Bus.RedisPassword,
		RedisDB:       cfg.Bus.RedisDB,
		LocalBuf:      cfg.Bus.LocalBuf,
	})
	if err != nil {
		log.Fatalf("bus: %v", err)
	}
	emitter := events.NewBusEmitter(ps, logger)
	logger.Info("event bus initialized", zap.Bool("redis", cfg.Bus.RedisAddr != ""))

	// ---- Grid and director ----
	grid := nav.NewGrid(cfg.Grid.Width, cfg.Grid.Height, cfg.Grid.CellSize)
	view := &headlessView{grid: grid}

	spawnCfg := spawn.DefaultConfig()
	spawnCfg.BaseInterval = cfg.Spawn.BaseInterval
	spawnCfg.MinRadius = cfg.Spawn.MinRadius
	spawnCfg.MaxRadius = cfg.Spawn.MaxRadius
	spawnCfg.ClusterRadius = cfg.Spawn.ClusterRadius
	spawnCfg.MotionThreshold = cfg.Spawn.MotionThreshold
	spawnCfg.BaseCount = cfg.Spawn.BaseCount

	dirCfg := world.DefaultConfig()
	dirCfg.MaxAgents = cfg.AI.MaxAgents
	dirCfg.DecisionInterval = time.Duration(cfg.AI.DecisionMs) * time.Millisecond
	dirCfg.PathInterval = time.Duration(cfg.AI.PathMs) * time.Millisecond
	dirCfg.LODInterval = cfg.AI.LODInterval
	dirCfg.LODDistances = [3]float64{cfg.AI.LODNear, cfg.AI.LODMid, cfg.AI.LODFar}
	dirCfg.DespawnDistance = cfg.AI.DespawnDistance
	dirCfg.NeighborRadius = cfg.AI.NeighborRadius
	dirCfg.RingRadius = cfg.AI.RingRadius
	dirCfg.WanderRadius = cfg.AI.WanderRadius
	dirCfg.GroupFoundCount = cfg.AI.GroupFoundCount
	dirCfg.GroupJoinRadius = cfg.AI.GroupJoinRadius
	dirCfg.Seed = cfg.AI.Seed
	dirCfg.Spawn = spawnCfg

	dir, err := world.NewDirector(dirCfg, grid, view, emitter, logger)
	if err != nil {
		log.Fatalf("director: %v", err)
	}
	logger.Info("AI director initialized", zap.Int("max_agents", cfg.AI.MaxAgents))

	// ---- Simulation tick ----
	sched := scheduler.New(logger)
	defer sched.Stop()
	sched.AddTicker("sim_tick", time.Duration(cfg.AI.TickMs)*time.Millisecond, dir.Advance)

	// ---- Gin HTTP server ----
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(logger), mw.Recovery(logger))
	r.Use(mw.RateLimit(rate.Limit(cfg.Security.RateLimitRPS), cfg.Security.RateLimitBurst))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	diagH := apirest.NewDiagHandler(dir, logger)
	diagH.Register(r.Group("/api/ai"), mw.AdminKey(cfg.Server.AdminKey))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
