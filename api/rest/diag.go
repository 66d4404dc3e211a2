package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/overdrive-game/hordeai/game/spawn"
	"github.com/overdrive-game/hordeai/game/world"
	"github.com/overdrive-game/hordeai/geom"
)

// DiagHandler exposes the AI director's diagnostics over REST. Read
// endpoints are open; mutating endpoints go behind the admin-key guard.
type DiagHandler struct {
	dir    *world.Director
	logger *zap.Logger
}

// NewDiagHandler creates a DiagHandler.
func NewDiagHandler(dir *world.Director, logger *zap.Logger) *DiagHandler {
	return &DiagHandler{dir: dir, logger: logger}
}

// Register mounts the diagnostics routes. admin guards the mutating ones.
func (h *DiagHandler) Register(rg *gin.RouterGroup, admin gin.HandlerFunc) {
	rg.GET("/status", h.Status)
	rg.GET("/agents", h.Agents)
	rg.GET("/difficulty", h.Difficulty)
	rg.GET("/performance", h.Performance)

	guarded := rg.Group("", admin)
	guarded.POST("/difficulty/override", h.SetOverride)
	guarded.DELETE("/difficulty/override", h.ClearOverride)
	guarded.POST("/spawn", h.Spawn)
}

// Status returns a one-shot health view of the AI system.
// GET /api/ai/status
func (h *DiagHandler) Status(c *gin.Context) {
	fulfilled, failed, eff := h.dir.SpawnStats()
	c.JSON(http.StatusOK, gin.H{
		"agents":           h.dir.AgentCount(),
		"groups":           h.dir.GroupCount(),
		"difficulty":       h.dir.Difficulty(),
		"performance":      h.dir.PerformanceScore(),
		"spawns_fulfilled": fulfilled,
		"spawns_failed":    failed,
		"spawn_efficiency": eff,
		"sim_clock_s":      h.dir.Clock().Seconds(),
	})
}

// Agents returns a snapshot of every live agent.
// GET /api/ai/agents
func (h *DiagHandler) Agents(c *gin.Context) {
	snaps := h.dir.AgentsSnapshot()
	c.JSON(http.StatusOK, gin.H{"agents": snaps, "count": len(snaps)})
}

// Difficulty returns the current level and adjustment history.
// GET /api/ai/difficulty
func (h *DiagHandler) Difficulty(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"level":      h.dir.Difficulty(),
		"overridden": h.dir.DifficultyOverridden(),
		"history":    h.dir.DifficultyHistory(),
	})
}

// Performance returns the latest composite performance snapshot.
// GET /api/ai/performance
func (h *DiagHandler) Performance(c *gin.Context) {
	snap, ok := h.dir.PerformanceSnapshot()
	c.JSON(http.StatusOK, gin.H{
		"score":        h.dir.PerformanceScore(),
		"has_snapshot": ok,
		"latest":       snap,
	})
}

// SetOverride force-sets the difficulty level, clamped to the valid band.
// POST /api/ai/difficulty/override
func (h *DiagHandler) SetOverride(c *gin.Context) {
	var req struct {
		Value float64 `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	applied := h.dir.SetDifficultyOverride(req.Value)
	h.logger.Info("difficulty override set",
		zap.Float64("requested", req.Value),
		zap.Float64("applied", applied))
	c.JSON(http.StatusOK, gin.H{"level": applied})
}

// ClearOverride returns difficulty control to the adaptive loop.
// DELETE /api/ai/difficulty/override
func (h *DiagHandler) ClearOverride(c *gin.Context) {
	h.dir.ClearDifficultyOverride()
	h.logger.Info("difficulty override cleared")
	c.JSON(http.StatusOK, gin.H{"level": h.dir.Difficulty()})
}

// Spawn places a single agent directly for testing encounters.
// POST /api/ai/spawn
func (h *DiagHandler) Spawn(c *gin.Context) {
	var req struct {
		Tier string  `json:"tier" binding:"required"`
		X    float64 `json:"x"`
		Z    float64 `json:"z"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	id, err := h.dir.SpawnAgent(spawn.Tier(req.Tier), geom.Vec3{X: req.X, Z: req.Z})
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id.String()})
}
