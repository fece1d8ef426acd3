// Package config loads run settings from a YAML file, a .env file and
// SCAN_* environment variables, in increasing order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-scan/pkg/logging"
	"github.com/dd0wney/cluso-scan/pkg/scan"
	"github.com/dd0wney/cluso-scan/pkg/validation"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SCAN_"

var ErrInvalidEnv = errors.New("invalid environment override")

// Formats lists the accepted report formats.
var Formats = []string{"text", "json"}

// Config holds everything one clustering run needs.
type Config struct {
	Input           string        `yaml:"input" validate:"omitempty,path"`
	Output          string        `yaml:"output" validate:"omitempty,path"`
	Format          string        `yaml:"format"`
	Epsilon         float64       `yaml:"eps" validate:"gte=0,lte=1"`
	Mu              int           `yaml:"mu" validate:"min=1"`
	Alpha           float64       `yaml:"alpha" validate:"gte=0,lte=1"`
	Exhaustive      bool          `yaml:"exhaustive"`
	LogLevel        string        `yaml:"log_level"`
	MetricsFile     string        `yaml:"metrics_file" validate:"omitempty,path"`
	PostgresURL     string        `yaml:"postgres_url" validate:"omitempty,url"`
	PostgresTimeout time.Duration `yaml:"postgres_timeout"`
	Workers         int           `yaml:"workers"`
	Sweep           Sweep         `yaml:"sweep"`
}

// Sweep lists the eps and mu values of a parameter sweep. A sweep runs
// when either list is set; the other defaults to the single run value.
type Sweep struct {
	Eps []float64 `yaml:"eps"`
	Mu  []int     `yaml:"mu"`
}

// Enabled reports whether a sweep was requested.
func (s Sweep) Enabled() bool {
	return len(s.Eps) > 0 || len(s.Mu) > 0
}

// Grid expands the sweep against the single-run parameters of c.
func (c *Config) Grid() []scan.Params {
	eps, mus := c.Sweep.Eps, c.Sweep.Mu
	if len(eps) == 0 {
		eps = []float64{c.Epsilon}
	}
	if len(mus) == 0 {
		mus = []int{c.Mu}
	}
	grid := scan.Grid(eps, mus)
	for i := range grid {
		grid[i].Alpha = c.Alpha
	}
	return grid
}

// Default returns stdin-to-stdout text output with eps=0.5 and mu=2.
func Default() *Config {
	p := scan.DefaultParams()
	return &Config{
		Input:           "-",
		Output:          "-",
		Format:          "text",
		Epsilon:         p.Epsilon,
		Mu:              p.Mu,
		Alpha:           p.Alpha,
		LogLevel:        "info",
		PostgresTimeout: 30 * time.Second,
	}
}

// Params returns the clustering parameters of the config.
func (c *Config) Params() scan.Params {
	return scan.Params{Epsilon: c.Epsilon, Mu: c.Mu, Alpha: c.Alpha}
}

// Validate implements validation.Validatable with the checks struct tags
// cannot express.
func (c *Config) Validate() error {
	return validation.NewConfigValidator("Config").
		Required("Input", c.Input).
		Required("Output", c.Output).
		OneOf("Format", c.Format, Formats).
		MinInt("Workers", c.Workers, 0).
		Custom("Params", c.Params().Validate).
		Custom("LogLevel", func() error {
			_, err := logging.LookupLevel(c.LogLevel)
			return err
		}).
		When(c.Sweep.Enabled(), c.Sweep.validate).
		When(c.PostgresURL != "", func(cv *validation.ConfigValidator) {
			cv.RangeDuration("PostgresTimeout", c.PostgresTimeout, time.Second, time.Hour)
		}).
		Validate()
}

func (s Sweep) validate(cv *validation.ConfigValidator) {
	for i, eps := range s.Eps {
		cv.UnitInterval(fmt.Sprintf("Sweep.Eps[%d]", i), eps)
	}
	for i, mu := range s.Mu {
		cv.MinInt(fmt.Sprintf("Sweep.Mu[%d]", i), mu, 1)
	}
}

// fillDefaults restores defaults for settings a file or the environment
// set to an empty value.
func (c *Config) fillDefaults() {
	d := Default()
	c.Input = validation.DefaultOr(c.Input, d.Input)
	c.Output = validation.DefaultOr(c.Output, d.Output)
	c.Format = validation.DefaultOr(c.Format, d.Format)
	c.LogLevel = validation.DefaultOr(c.LogLevel, d.LogLevel)
	c.PostgresTimeout = validation.DefaultOr(c.PostgresTimeout, d.PostgresTimeout)
}

// Check runs tag validation and Validate.
func (c *Config) Check() error {
	return validation.ValidateConfig(c)
}

// LoadDotEnv loads KEY=VALUE files into the process environment without
// overriding variables already set. Missing files are skipped.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// Load builds a config from defaults, then the YAML file at path (skipped
// when path is empty), then SCAN_* variables. It does not validate.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := cfg.decode(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML from r over the defaults.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(r); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	c.fillDefaults()
	return nil
}

// ApplyEnv overrides fields from SCAN_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"INPUT":        &c.Input,
		"OUTPUT":       &c.Output,
		"FORMAT":       &c.Format,
		"LOG_LEVEL":    &c.LogLevel,
		"METRICS_FILE": &c.MetricsFile,
		"POSTGRES_URL": &c.PostgresURL,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}

	if v, ok := lookup(EnvPrefix + "EPS"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return envError("EPS", v, err)
		}
		c.Epsilon = f
	}
	if v, ok := lookup(EnvPrefix + "ALPHA"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return envError("ALPHA", v, err)
		}
		c.Alpha = f
	}
	if v, ok := lookup(EnvPrefix + "MU"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return envError("MU", v, err)
		}
		c.Mu = n
	}
	if v, ok := lookup(EnvPrefix + "WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return envError("WORKERS", v, err)
		}
		c.Workers = n
	}
	if v, ok := lookup(EnvPrefix + "SWEEP_EPS"); ok {
		eps, err := ParseFloats(v)
		if err != nil {
			return envError("SWEEP_EPS", v, err)
		}
		c.Sweep.Eps = eps
	}
	if v, ok := lookup(EnvPrefix + "SWEEP_MU"); ok {
		mus, err := ParseInts(v)
		if err != nil {
			return envError("SWEEP_MU", v, err)
		}
		c.Sweep.Mu = mus
	}
	if v, ok := lookup(EnvPrefix + "EXHAUSTIVE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return envError("EXHAUSTIVE", v, err)
		}
		c.Exhaustive = b
	}
	if v, ok := lookup(EnvPrefix + "POSTGRES_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return envError("POSTGRES_TIMEOUT", v, err)
		}
		c.PostgresTimeout = d
	}
	c.fillDefaults()
	return nil
}

func envError(key, value string, err error) error {
	return fmt.Errorf("%w: %s%s=%q: %v", ErrInvalidEnv, EnvPrefix, key, value, err)
}

// ParseFloats parses a comma-separated list such as "0.3,0.5,0.7".
func ParseFloats(s string) ([]float64, error) {
	var out []float64
	for _, tok := range strings.Split(s, ",") {
		if tok = strings.TrimSpace(tok); tok == "" {
			continue
		}
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// ParseInts parses a comma-separated list such as "2,3,5".
func ParseInts(s string) ([]int, error) {
	var out []int
	for _, tok := range strings.Split(s, ",") {
		if tok = strings.TrimSpace(tok); tok == "" {
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
