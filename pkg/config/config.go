// Package config loads application settings from a YAML file. Every field
// is optional; zero values fall back to environment variables and then to
// built-in defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable consulted when no path is given.
const EnvPath = "BRICKWORK_CONFIG"

// Defaults.
const (
	DefaultMeshCells     = 48
	DefaultEdgeThreshold = 15.0 // degrees
	DefaultEvalTimeout   = 5 * time.Second
	DefaultDetailNear    = 80.0
	DefaultDetailFar     = 95.0
)

// Config is the root configuration document.
type Config struct {
	Catalog string        `yaml:"catalog"` // path to a YAML piece catalog; empty uses the built-in one
	Mesh    MeshConfig    `yaml:"mesh"`
	Engine  EngineConfig  `yaml:"engine"`
	Detail  DetailConfig  `yaml:"detail"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type MeshConfig struct {
	Cells         int     `yaml:"cells"`
	EdgeThreshold float64 `yaml:"edge_threshold_deg"`
}

type EngineConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

type DetailConfig struct {
	Near float64 `yaml:"near"`
	Far  float64 `yaml:"far"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Listen string `yaml:"listen"` // e.g. "127.0.0.1:9464"; empty disables the endpoint
}

// GetListen returns the metrics listen address, falling back to
// BRICKWORK_METRICS_ADDR. Empty means metrics are not served.
func (m MetricsConfig) GetListen() string {
	if m.Listen != "" {
		return m.Listen
	}
	return os.Getenv("BRICKWORK_METRICS_ADDR")
}

// GetCells returns the marching cubes resolution for curved bodies.
func (m MeshConfig) GetCells() int {
	return intWithEnvFallback(m.Cells, "BRICKWORK_MESH_CELLS", DefaultMeshCells)
}

// GetEdgeThreshold returns the outline crease angle in degrees.
func (m MeshConfig) GetEdgeThreshold() float64 {
	if m.EdgeThreshold > 0 {
		return m.EdgeThreshold
	}
	return DefaultEdgeThreshold
}

// GetTimeout returns the script evaluation timeout.
func (e EngineConfig) GetTimeout() time.Duration {
	if e.Timeout > 0 {
		return e.Timeout
	}
	if v := os.Getenv("BRICKWORK_EVAL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return DefaultEvalTimeout
}

// Bounds returns the near and far detail distances. A far distance not
// beyond near is widened to keep the hysteresis band open.
func (d DetailConfig) Bounds() (near, far float64) {
	near, far = d.Near, d.Far
	if near <= 0 {
		near = DefaultDetailNear
	}
	if far <= near {
		far = near + (DefaultDetailFar - DefaultDetailNear)
	}
	return near, far
}

// intWithEnvFallback returns the value with priority config -> env -> default.
func intWithEnvFallback(v int, envVar string, def int) int {
	if v > 0 {
		return v
	}
	if s := os.Getenv(envVar); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// Default returns a configuration with every field at its zero value, so
// all getters report defaults.
func Default() *Config {
	return &Config{}
}

// Load reads a YAML configuration file. An empty path falls back to the
// BRICKWORK_CONFIG environment variable, and if that is unset too the
// default configuration is returned.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvPath)
		if path == "" {
			return Default(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML configuration document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
