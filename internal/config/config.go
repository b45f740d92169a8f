package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the startup configuration for both server and client binaries.
// Values are consumed once at startup; nothing reloads at runtime.
type Config struct {
	Seed     int64 `yaml:"seed"`
	TickRate int   `yaml:"tick_rate"`

	RenderDistance int `yaml:"render_distance"`
	LoadDistance   int `yaml:"load_distance"`
	UnloadDistance int `yaml:"unload_distance"`

	Mesh    MeshConfig    `yaml:"mesh"`
	Network NetworkConfig `yaml:"network"`
}

// MeshConfig tunes the async mesh pipeline.
type MeshConfig struct {
	Workers          int     `yaml:"workers"`       // 0 = auto
	FrameBudget      int     `yaml:"frame_budget"`  // completed meshes applied per frame
	AmbientOcclusion bool    `yaml:"ambient_occlusion"`
	AOStrength       float32 `yaml:"ao_strength"`
}

// NetworkConfig locates the game server.
type NetworkConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
}

// Default returns the reference configuration.
func Default() *Config {
	return &Config{
		Seed:           1337,
		TickRate:       20,
		RenderDistance: 8,
		LoadDistance:   10,
		UnloadDistance: 12,
		Mesh: MeshConfig{
			Workers:          0,
			FrameBudget:      3,
			AmbientOcclusion: true,
			AOStrength:       0.5,
		},
		Network: NetworkConfig{
			Host:        "127.0.0.1",
			Port:        7777,
			MetricsPort: 2112,
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}
	cfg.normalize()
	return cfg, nil
}

// normalize clamps values into workable ranges and keeps the unload distance
// hysteresis band of at least 2 chunks above the load distance.
func (c *Config) normalize() {
	if c.TickRate < 1 {
		c.TickRate = 1
	}
	if c.RenderDistance < 2 {
		c.RenderDistance = 2
	}
	if c.RenderDistance > 32 {
		c.RenderDistance = 32
	}
	if c.LoadDistance < c.RenderDistance {
		c.LoadDistance = c.RenderDistance + 2
	}
	if c.UnloadDistance < c.LoadDistance+2 {
		c.UnloadDistance = c.LoadDistance + 2
	}
	if c.Mesh.FrameBudget < 1 {
		c.Mesh.FrameBudget = 3
	}
	if c.Mesh.AOStrength < 0 {
		c.Mesh.AOStrength = 0
	}
	if c.Mesh.AOStrength > 1 {
		c.Mesh.AOStrength = 1
	}
}

// GetPort returns the game port with priority config -> env -> default.
func (n *NetworkConfig) GetPort() int {
	return portWithEnvFallback(n.Port, "BLOCKWORLD_PORT", 7777)
}

// GetMetricsPort returns the Prometheus port with priority config -> env -> default.
func (n *NetworkConfig) GetMetricsPort() int {
	return portWithEnvFallback(n.MetricsPort, "BLOCKWORLD_METRICS_PORT", 2112)
}

// Addr returns the host:port dial/listen address for the game server.
func (n *NetworkConfig) Addr() string {
	return fmt.Sprintf("%s:%d", n.Host, n.GetPort())
}

func portWithEnvFallback(configured int, envVar string, def int) int {
	if configured > 0 {
		return configured
	}
	if v := os.Getenv(envVar); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			return p
		}
	}
	return def
}
