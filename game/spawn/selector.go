package spawn

import (
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/overdrive-game/hordeai/geom"
)

// PatternKind names a spawn geometry rule.
type PatternKind string

const (
	PatternScattered PatternKind = "scattered"
	PatternClustered PatternKind = "clustered"
	PatternAmbush    PatternKind = "ambush"
	PatternSwarm     PatternKind = "swarm"
)

// Tier is the four-level agent-type distribution.
type Tier string

const (
	TierCommon Tier = "common"
	TierFast   Tier = "fast"
	TierHeavy  Tier = "heavy"
	TierRare   Tier = "rare"
)

// Status is the spawn-request lifecycle.
type Status int

const (
	StatusPending Status = iota
	StatusFulfilled
	StatusFailed
)

// Request asks the director to create one agent.
type Request struct {
	ID       uuid.UUID
	Pos      geom.Vec3
	Tier     Tier
	Priority float64
	Pattern  PatternKind
	GroupTag string // non-empty when members should start pre-grouped
	Status   Status
}

// PatternWeight parameterizes a pattern's draw weight as a linear function
// of difficulty: weight = Base + Scale×difficulty, floored at zero.
type PatternWeight struct {
	Base  float64 `mapstructure:"base"`
	Scale float64 `mapstructure:"scale"`
}

// Config is the spawn tuning surface.
type Config struct {
	BaseInterval    time.Duration
	MinRadius       float64
	MaxRadius       float64
	ClusterRadius   float64
	MotionThreshold float64 // player speed gating the ambush pattern
	BaseCount       int     // agents per cycle before difficulty scaling
	Patterns        map[PatternKind]PatternWeight
	TierWeights     map[Tier]PatternWeight
}

// DefaultConfig: scattered weight falls with difficulty while ambush and
// swarm weights rise, shifting pressure from roaming to coordination.
func DefaultConfig() Config {
	return Config{
		BaseInterval:    10 * time.Second,
		MinRadius:       30,
		MaxRadius:       100,
		ClusterRadius:   5,
		MotionThreshold: 6,
		BaseCount:       2,
		Patterns: map[PatternKind]PatternWeight{
			PatternScattered: {Base: 1.00, Scale: -0.25},
			PatternClustered: {Base: 0.55, Scale: 0.10},
			PatternAmbush:    {Base: 0.25, Scale: 0.25},
			PatternSwarm:     {Base: 0.15, Scale: 0.30},
		},
		TierWeights: map[Tier]PatternWeight{
			TierCommon: {Base: 1.00, Scale: -0.18},
			TierFast:   {Base: 0.35, Scale: 0.15},
			TierHeavy:  {Base: 0.22, Scale: 0.18},
			TierRare:   {Base: 0.05, Scale: 0.10},
		},
	}
}

// CycleInput is the read-only world context for one spawn cycle.
// Difficulty is produced once per cycle by the controller and consumed
// read-only here; the selector never mutates it back.
type CycleInput struct {
	Difficulty   float64
	PlayerPos    geom.Vec3
	PlayerVel    geom.Vec3
	HasPlayer    bool
	ActiveAgents int
	MaxAgents    int
}

// Selector chooses spawn geometry and agent-type mix as a function of
// difficulty and player motion.
type Selector struct {
	cfg    Config
	rng    *rand.Rand
	logger *zap.Logger

	sinceCycle time.Duration
	fulfilled  int
	failed     int
}

func NewSelector(cfg Config, rng *rand.Rand, logger *zap.Logger) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	if cfg.BaseCount <= 0 {
		cfg.BaseCount = 2
	}
	return &Selector{cfg: cfg, rng: rng, logger: logger}
}

// ShouldCycle accumulates simulation time against the difficulty-scaled
// cadence: base interval ÷ max(0.5, difficulty).
func (s *Selector) ShouldCycle(dt time.Duration, difficulty float64) bool {
	s.sinceCycle += dt
	interval := time.Duration(float64(s.cfg.BaseInterval) / math.Max(0.5, difficulty))
	if s.sinceCycle < interval {
		return false
	}
	s.sinceCycle = 0
	return true
}

// PlanCycle emits pending spawn requests for one cycle, or nil when the
// active-agent count has reached the difficulty-scaled cap or no player
// exists this tick.
func (s *Selector) PlanCycle(in CycleInput) []*Request {
	if !in.HasPlayer {
		return nil
	}
	cap := int(float64(in.MaxAgents) * in.Difficulty)
	if cap < 1 {
		cap = 1
	}
	if in.ActiveAgents >= cap {
		return nil
	}

	count := s.cfg.BaseCount + int(in.Difficulty*1.5)
	if remaining := cap - in.ActiveAgents; count > remaining {
		count = remaining
	}
	if count <= 0 {
		return nil
	}

	kind := s.pickPattern(in)
	positions, kind := s.positionsFor(kind, in, count)

	groupTag := ""
	if kind == PatternSwarm {
		groupTag = uuid.NewString()
	}

	reqs := make([]*Request, 0, len(positions))
	for _, pos := range positions {
		reqs = append(reqs, &Request{
			ID:       uuid.New(),
			Pos:      pos,
			Tier:     s.pickTier(in.Difficulty, kind),
			Priority: patternPriority(kind),
			Pattern:  kind,
			GroupTag: groupTag,
			Status:   StatusPending,
		})
	}
	s.logger.Debug("spawn cycle planned",
		zap.String("pattern", string(kind)),
		zap.Int("count", len(reqs)),
		zap.Float64("difficulty", in.Difficulty))
	return reqs
}

// PatternWeightAt exposes the effective draw weight of a pattern at a
// given difficulty.
func (s *Selector) PatternWeightAt(kind PatternKind, difficulty float64) float64 {
	w, ok := s.cfg.Patterns[kind]
	if !ok {
		return 0
	}
	return math.Max(0, w.Base+w.Scale*difficulty)
}

func (s *Selector) pickPattern(in CycleInput) PatternKind {
	kinds := []PatternKind{PatternScattered, PatternClustered, PatternAmbush, PatternSwarm}
	total := 0.0
	weights := make([]float64, len(kinds))
	for i, k := range kinds {
		weights[i] = s.PatternWeightAt(k, in.Difficulty)
		total += weights[i]
	}
	if total <= 0 {
		return PatternScattered
	}
	draw := s.rng.Float64() * total
	for i, k := range kinds {
		draw -= weights[i]
		if draw < 0 {
			return k
		}
	}
	return kinds[len(kinds)-1]
}

// positionsFor generates spawn positions per the pattern geometry. The
// ambush pattern requires the player to be moving; below the motion
// threshold it degrades to scattered, and the returned kind reflects that.
func (s *Selector) positionsFor(kind PatternKind, in CycleInput, count int) ([]geom.Vec3, PatternKind) {
	switch kind {
	case PatternAmbush:
		speed := in.PlayerVel.Len()
		if speed < s.cfg.MotionThreshold {
			return s.scattered(in.PlayerPos, count), PatternScattered
		}
		return s.ambush(in.PlayerPos, in.PlayerVel, count), PatternAmbush
	case PatternClustered:
		return s.clustered(in.PlayerPos, count), PatternClustered
	case PatternSwarm:
		return s.swarm(in.PlayerPos, count), PatternSwarm
	default:
		return s.scattered(in.PlayerPos, count), PatternScattered
	}
}

// scattered: uniform ring around the player at [MinRadius, MaxRadius].
func (s *Selector) scattered(center geom.Vec3, count int) []geom.Vec3 {
	out := make([]geom.Vec3, count)
	for i := range out {
		out[i] = center.Add(s.ringPoint(s.cfg.MinRadius, s.cfg.MaxRadius))
	}
	return out
}

// clustered: several small tightly-packed rings.
func (s *Selector) clustered(center geom.Vec3, count int) []geom.Vec3 {
	clusters := 2 + s.rng.Intn(2)
	if clusters > count {
		clusters = count
	}
	centers := make([]geom.Vec3, clusters)
	for i := range centers {
		centers[i] = center.Add(s.ringPoint(s.cfg.MinRadius, s.cfg.MaxRadius))
	}
	out := make([]geom.Vec3, count)
	for i := range out {
		c := centers[i%clusters]
		out[i] = c.Add(s.ringPoint(0, s.cfg.ClusterRadius))
	}
	return out
}

// ambush: positions biased into a cone ahead of the player's velocity.
func (s *Selector) ambush(center, vel geom.Vec3, count int) []geom.Vec3 {
	heading := vel.HeadingXZ()
	const coneHalfWidth = math.Pi / 6
	out := make([]geom.Vec3, count)
	for i := range out {
		angle := heading + (s.rng.Float64()*2-1)*coneHalfWidth
		r := s.cfg.MinRadius + s.rng.Float64()*(s.cfg.MaxRadius-s.cfg.MinRadius)
		out[i] = center.Add(geom.FromAngleXZ(angle).Scale(r))
	}
	return out
}

// swarm: one large tightly-packed ring; callers attach a shared group tag
// so members start pre-grouped.
func (s *Selector) swarm(center geom.Vec3, count int) []geom.Vec3 {
	swarmCenter := center.Add(s.ringPoint(s.cfg.MinRadius, s.cfg.MaxRadius))
	out := make([]geom.Vec3, count)
	for i := range out {
		out[i] = swarmCenter.Add(s.ringPoint(0, s.cfg.ClusterRadius))
	}
	return out
}

func (s *Selector) ringPoint(minR, maxR float64) geom.Vec3 {
	angle := s.rng.Float64() * 2 * math.Pi
	r := minR
	if maxR > minR {
		r += s.rng.Float64() * (maxR - minR)
	}
	return geom.FromAngleXZ(angle).Scale(r)
}

// pickTier draws an agent type from the difficulty-weighted four-tier
// distribution, with pattern context boosting specific tiers.
func (s *Selector) pickTier(difficulty float64, kind PatternKind) Tier {
	tiers := []Tier{TierCommon, TierFast, TierHeavy, TierRare}
	total := 0.0
	weights := make([]float64, len(tiers))
	for i, tier := range tiers {
		w, ok := s.cfg.TierWeights[tier]
		if !ok {
			continue
		}
		weights[i] = math.Max(0, w.Base+w.Scale*difficulty) * contextBoost(kind, tier)
		total += weights[i]
	}
	if total <= 0 {
		return TierCommon
	}
	draw := s.rng.Float64() * total
	for i, tier := range tiers {
		draw -= weights[i]
		if draw < 0 {
			return tier
		}
	}
	return TierCommon
}

// contextBoost skews the tier draw per pattern: ambushes favor fast
// agents, swarms favor numbers, clusters bring muscle.
func contextBoost(kind PatternKind, tier Tier) float64 {
	switch kind {
	case PatternAmbush:
		if tier == TierFast {
			return 2.0
		}
	case PatternSwarm:
		if tier == TierCommon {
			return 1.5
		}
	case PatternClustered:
		if tier == TierHeavy {
			return 1.5
		}
	}
	return 1.0
}

func patternPriority(kind PatternKind) float64 {
	switch kind {
	case PatternAmbush:
		return 0.9
	case PatternSwarm:
		return 0.7
	case PatternClustered:
		return 0.5
	default:
		return 0.3
	}
}

// MarkFulfilled records a successfully created agent.
func (s *Selector) MarkFulfilled(req *Request) {
	req.Status = StatusFulfilled
	s.fulfilled++
}

// MarkFailed records a rejected request (invalid position). Failed
// requests never count toward active agents and are not retried.
func (s *Selector) MarkFailed(req *Request) {
	req.Status = StatusFailed
	s.failed++
}

// Efficiency is the fraction of requests that were fulfilled; 1.0 before
// any request resolves.
func (s *Selector) Efficiency() float64 {
	total := s.fulfilled + s.failed
	if total == 0 {
		return 1.0
	}
	return float64(s.fulfilled) / float64(total)
}

// Stats returns fulfilled and failed request counts.
func (s *Selector) Stats() (fulfilled, failed int) {
	return s.fulfilled, s.failed
}
