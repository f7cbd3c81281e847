// Package pfconfig holds the tunable parameters that shape pathfinder
// behavior: A* weighting, water traversal cost bands, iteration
// budgets, and cluster sizing. Grounded on the teacher's
// internal/config package (yaml.v3, Default*/Load* pairs, "missing
// file returns defaults, not an error").
package pfconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable the pathfinder stack consumes.
type Config struct {
	// HeuristicWeight scales the A* heuristic term (>1.0 trades
	// optimality for speed, spec §4.2/§4.3/§4.6).
	HeuristicWeight float64 `yaml:"heuristic_weight"`

	// MaxIterations bounds every A* search's open-set pops before it
	// gives up and reports no path found (spec §4.1 "iteration
	// budget").
	MaxIterations int `yaml:"max_iterations"`

	// DirectionChangePenalty is added to rail A*'s edge cost whenever
	// a step changes heading (spec §4.4).
	DirectionChangePenalty int `yaml:"direction_change_penalty"`

	// WaterPenalty is added to rail A*'s edge cost for stepping onto
	// a water tile (spec §4.4).
	WaterPenalty int `yaml:"water_penalty"`

	// ClusterSize is the abstract graph's square cluster edge length
	// (spec §4.5).
	ClusterSize int `yaml:"cluster_size"`

	// MaxSearchArea bounds bounded water A*'s rectangle area (spec
	// §4.3).
	MaxSearchArea int `yaml:"max_search_area"`

	// ShortPathThreshold holds a Manhattan distance for the hierarchical
	// short-path cutoff. No package reads it: the hierarchical finder
	// uses its own fixed 120-tile threshold.
	ShortPathThreshold int `yaml:"short_path_threshold"`

	// MinWaterMagnitude holds a minimum traversal magnitude for LOS
	// smoothing's second, strict pass. No package reads it: the smoother
	// uses its own fixed pass-2 minimum of 6.
	MinWaterMagnitude int `yaml:"min_water_magnitude"`

	// ParabolaMinHeight holds an arc peak height for the parabola
	// Planner. No package reads it: Planner.Configure takes the height
	// as an argument and falls back to parabola.DefaultMinHeight.
	ParabolaMinHeight int `yaml:"parabola_min_height"`

	// AirDriftChance is 1/n odds of lateral drift per AirWalker step.
	AirDriftChance int `yaml:"air_drift_chance"`

	// AirMaxDrift bounds AirWalker's lateral drift in tiles.
	AirMaxDrift int `yaml:"air_max_drift"`
}

// Default returns Config with the values the spec's worked examples
// and invariants assume.
func Default() Config {
	return Config{
		HeuristicWeight:        1.0,
		MaxIterations:          50000,
		DirectionChangePenalty: 3,
		WaterPenalty:           5,
		ClusterSize:            32,
		MaxSearchArea:          64 * 64,
		ShortPathThreshold:     120,
		MinWaterMagnitude:      6,
		ParabolaMinHeight:      50,
		AirDriftChance:         30,
		AirMaxDrift:            2,
	}
}

// Load reads Config from a YAML file, starting from Default and
// overriding whatever the file sets. If path does not exist, Load
// returns Default unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading pathfinder config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing pathfinder config %s: %w", path, err)
	}
	return cfg, nil
}
