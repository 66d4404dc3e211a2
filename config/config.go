package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Bus      BusConfig      `mapstructure:"bus"`
	Grid     GridConfig     `mapstructure:"grid"`
	AI       AIConfig       `mapstructure:"ai"`
	Spawn    SpawnConfig    `mapstructure:"spawn"`
	Security SecurityConfig `mapstructure:"security"`
}

type ServerConfig struct {
	Port     int    `mapstructure:"port"`
	Debug    bool   `mapstructure:"debug"`
	AdminKey string `mapstructure:"admin_key"`
}

type BusConfig struct {
	RedisAddr     string `mapstructure:"redis_addr"` // empty = in-process bus
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	LocalBuf      int    `mapstructure:"local_buf"`
}

type GridConfig struct {
	Width    int     `mapstructure:"width"`
	Height   int     `mapstructure:"height"`
	CellSize float64 `mapstructure:"cell_size"`
}

type AIConfig struct {
	MaxAgents       int           `mapstructure:"max_agents"`
	TickMs          int           `mapstructure:"tick_ms"`
	DecisionMs      int           `mapstructure:"decision_ms"`
	PathMs          int           `mapstructure:"path_ms"`
	LODInterval     time.Duration `mapstructure:"lod_interval"`
	LODNear         float64       `mapstructure:"lod_near"`
	LODMid          float64       `mapstructure:"lod_mid"`
	LODFar          float64       `mapstructure:"lod_far"`
	DespawnDistance float64       `mapstructure:"despawn_distance"`
	NeighborRadius  float64       `mapstructure:"neighbor_radius"`
	RingRadius      float64       `mapstructure:"ring_radius"`
	WanderRadius    float64       `mapstructure:"wander_radius"`
	GroupFoundCount int           `mapstructure:"group_found_count"`
	GroupJoinRadius float64       `mapstructure:"group_join_radius"`
	Seed            int64         `mapstructure:"seed"`
}

type SpawnConfig struct {
	BaseInterval    time.Duration `mapstructure:"base_interval"`
	MinRadius       float64       `mapstructure:"min_radius"`
	MaxRadius       float64       `mapstructure:"max_radius"`
	ClusterRadius   float64       `mapstructure:"cluster_radius"`
	MotionThreshold float64       `mapstructure:"motion_threshold"`
	BaseCount       int           `mapstructure:"base_count"`
}

type SecurityConfig struct {
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Load reads config from the given YAML file path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Defaults
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.debug", false)
	v.SetDefault("bus.local_buf", 256)
	v.SetDefault("grid.width", 512)
	v.SetDefault("grid.height", 512)
	v.SetDefault("grid.cell_size", 1.0)
	v.SetDefault("ai.max_agents", 40)
	v.SetDefault("ai.tick_ms", 50)
	v.SetDefault("ai.decision_ms", 100)
	v.SetDefault("ai.path_ms", 500)
	v.SetDefault("ai.lod_interval", "1s")
	v.SetDefault("ai.lod_near", 60)
	v.SetDefault("ai.lod_mid", 120)
	v.SetDefault("ai.lod_far", 240)
	v.SetDefault("ai.despawn_distance", 400)
	v.SetDefault("ai.neighbor_radius", 15)
	v.SetDefault("ai.ring_radius", 6)
	v.SetDefault("ai.wander_radius", 12)
	v.SetDefault("ai.group_found_count", 3)
	v.SetDefault("ai.group_join_radius", 10)
	v.SetDefault("ai.seed", 1)
	v.SetDefault("spawn.base_interval", "10s")
	v.SetDefault("spawn.min_radius", 30)
	v.SetDefault("spawn.max_radius", 100)
	v.SetDefault("spawn.cluster_radius", 5)
	v.SetDefault("spawn.motion_threshold", 6)
	v.SetDefault("spawn.base_count", 2)
	v.SetDefault("security.rate_limit_rps", 50)
	v.SetDefault("security.rate_limit_burst", 100)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
