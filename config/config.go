// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/holeswarm/geom"
	"github.com/pthm-cable/holeswarm/sim"
	"github.com/pthm-cable/holeswarm/world"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Agent      AgentConfig      `yaml:"agent"`
	Neural     NeuralConfig     `yaml:"neural"`
	Training   TrainingConfig   `yaml:"training"`
	Population PopulationConfig `yaml:"population"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	History    HistoryConfig    `yaml:"history"`
	Autosave   AutosaveConfig   `yaml:"autosave"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the wall and world box.
type WorldConfig struct {
	WallZ      float64    `yaml:"wall_z"`
	HoleRadius float64    `yaml:"hole_radius"`
	HoleRange  float64    `yaml:"hole_range"` // hole center x,y drawn from [-range, range]
	BoundsMin  [3]float64 `yaml:"bounds_min"`
	BoundsMax  [3]float64 `yaml:"bounds_max"`
}

// AgentConfig holds the per-agent physics.
type AgentConfig struct {
	Radius          float64    `yaml:"radius"`
	Start           [3]float64 `yaml:"start"`
	ControlStrength float64    `yaml:"control_strength"`
	ForwardBias     float64    `yaml:"forward_bias"` // +Z added with every control step
	MaxSpeed        float64    `yaml:"max_speed"`
	Damping         float64    `yaml:"damping"` // velocity multiplier per step
}

// NeuralConfig holds the controller topology.
type NeuralConfig struct {
	LayerSizes []int `yaml:"layer_sizes"`
}

// TrainingConfig holds selection, mutation and imitation parameters.
type TrainingConfig struct {
	MutationRate      float64 `yaml:"mutation_rate"`
	MutationStrength  float64 `yaml:"mutation_strength"`
	DiversityRate     float64 `yaml:"diversity_rate"`     // founders' initial mutation
	DiversityStrength float64 `yaml:"diversity_strength"`
	LearningRate      float64 `yaml:"learning_rate"`      // trajectory replay after a success
	GoalReward        float64 `yaml:"goal_reward"`
}

// PopulationConfig holds swarm size and episode timing.
type PopulationConfig struct {
	Size           int     `yaml:"size"`
	MaxEpisodeTime float64 `yaml:"max_episode_time"`
	DT             float64 `yaml:"dt"`
}

// TelemetryConfig holds reporting parameters.
type TelemetryConfig struct {
	ReportInterval int `yaml:"report_interval"` // generations between console reports (0 = every one)
}

// HistoryConfig selects the run-history backend.
type HistoryConfig struct {
	Backend    string `yaml:"backend"` // memory or sqlite
	SQLitePath string `yaml:"sqlite_path"`
}

// AutosaveConfig holds periodic controller checkpointing.
type AutosaveConfig struct {
	Path             string `yaml:"path"`
	EveryGenerations int    `yaml:"every_generations"` // 0 disables
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	DT32      float32
	ScreenW32 float32
	ScreenH32 float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()
	return cfg, nil
}

// Validate rejects configurations the simulation cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Population.Size < 1 {
		errs = append(errs, fmt.Errorf("population.size must be positive, got %d", c.Population.Size))
	}
	if c.Population.DT <= 0 {
		errs = append(errs, fmt.Errorf("population.dt must be positive, got %v", c.Population.DT))
	}
	if c.Population.MaxEpisodeTime <= 0 {
		errs = append(errs, fmt.Errorf("population.max_episode_time must be positive, got %v", c.Population.MaxEpisodeTime))
	}
	sizes := c.Neural.LayerSizes
	if len(sizes) < 2 {
		errs = append(errs, fmt.Errorf("neural.layer_sizes needs at least 2 entries, got %d", len(sizes)))
	} else {
		if sizes[0] != world.NumSensors {
			errs = append(errs, fmt.Errorf("neural.layer_sizes[0] must be %d, got %d", world.NumSensors, sizes[0]))
		}
		if sizes[len(sizes)-1] < 4 {
			errs = append(errs, fmt.Errorf("neural.layer_sizes output must be at least 4, got %d", sizes[len(sizes)-1]))
		}
	}
	for i := range c.World.BoundsMin {
		if c.World.BoundsMin[i] >= c.World.BoundsMax[i] {
			errs = append(errs, fmt.Errorf("world.bounds_min[%d] must be below bounds_max", i))
		}
	}
	switch c.History.Backend {
	case "", "memory", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("history.backend %q is not memory or sqlite", c.History.Backend))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Population.DT)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
}

// EnvironmentParams converts the world section.
func (c *Config) EnvironmentParams() world.EnvironmentParams {
	return world.EnvironmentParams{
		WallZ:      float32(c.World.WallZ),
		HoleRadius: float32(c.World.HoleRadius),
		HoleRange:  float32(c.World.HoleRange),
		BoundsMin:  vec(c.World.BoundsMin),
		BoundsMax:  vec(c.World.BoundsMax),
	}
}

// AgentParams converts the agent section.
func (c *Config) AgentParams() world.AgentParams {
	return world.AgentParams{
		Radius:          float32(c.Agent.Radius),
		ControlStrength: float32(c.Agent.ControlStrength),
		ForwardBias:     float32(c.Agent.ForwardBias),
		MaxSpeed:        float32(c.Agent.MaxSpeed),
		Damping:         float32(c.Agent.Damping),
	}
}

// PopulationOptions assembles everything sim.NewPopulation needs.
func (c *Config) PopulationOptions() sim.Options {
	return sim.Options{
		Size:              c.Population.Size,
		LayerSizes:        append([]int(nil), c.Neural.LayerSizes...),
		Start:             vec(c.Agent.Start),
		MaxEpisodeTime:    float32(c.Population.MaxEpisodeTime),
		Environment:       c.EnvironmentParams(),
		Agent:             c.AgentParams(),
		DiversityRate:     float32(c.Training.DiversityRate),
		DiversityStrength: float32(c.Training.DiversityStrength),
		LearningRate:      float32(c.Training.LearningRate),
		MutationRate:      float32(c.Training.MutationRate),
		MutationStrength:  float32(c.Training.MutationStrength),
		GoalReward:        float32(c.Training.GoalReward),
	}
}

func vec(v [3]float64) geom.Vec3 {
	return geom.V3(float32(v[0]), float32(v[1]), float32(v[2]))
}

// Snapshot returns the configuration as YAML.
func (c *Config) Snapshot() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := c.Snapshot()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
