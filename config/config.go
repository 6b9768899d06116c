// Package config loads run configuration for the tokenizer pipeline from
// a YAML file, with sensible defaults for everything.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds every knob of a tokenizer run.
type Config struct {
	// InputDir is walked recursively for structure files.
	InputDir string `yaml:"input_dir"`

	// OutputDir receives the sentence and vocabulary files.
	OutputDir string `yaml:"output_dir"`

	// BinWidth is the torsion angle bin width in degrees. It must evenly
	// divide 360.
	BinWidth int `yaml:"bin_width"`

	// MinChainLength skips chains with fewer usable residues. Values
	// below 3 are meaningless, since such chains have no interior residue.
	MinChainLength int `yaml:"min_chain_length"`

	// ExcludedResidues lists three letter residue codes dropped from every
	// chain before bigram formation.
	ExcludedResidues []string `yaml:"excluded_residues"`

	// Workers is the number of files processed concurrently.
	Workers int `yaml:"workers"`

	// TrainFraction is the share of examples written to the training
	// split; the remainder goes to the validation split.
	TrainFraction float64 `yaml:"train_fraction"`

	// Seed fixes the shuffle used for the train/valid split, so repeated
	// runs produce identical splits.
	Seed int64 `yaml:"seed"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		InputDir:       ".",
		OutputDir:      "tokens",
		BinWidth:       10,
		MinChainLength: 3,
		Workers:        runtime.NumCPU(),
		TrainFraction:  0.8,
		Seed:           1,
	}
}

// Load reads a YAML configuration file on top of the defaults and
// validates the result.
func Load(path string) (Config, error) {
	conf := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return conf, err
	}
	if err := yaml.Unmarshal(raw, &conf); err != nil {
		return conf, fmt.Errorf("Could not parse config file '%s': %s",
			path, err)
	}
	if err := conf.Validate(); err != nil {
		return conf, fmt.Errorf("Invalid config file '%s': %s", path, err)
	}
	return conf, nil
}

// Validate checks the configuration for values no run could work with.
func (c Config) Validate() error {
	switch {
	case c.BinWidth <= 0 || 360%c.BinWidth != 0:
		return fmt.Errorf("bin_width must be a positive divisor of 360, "+
			"not %d", c.BinWidth)
	case c.MinChainLength < 3:
		return fmt.Errorf("min_chain_length must be at least 3, not %d",
			c.MinChainLength)
	case c.Workers < 1:
		return fmt.Errorf("workers must be at least 1, not %d", c.Workers)
	case c.TrainFraction <= 0 || c.TrainFraction > 1:
		return fmt.Errorf("train_fraction must be in (0, 1], not %g",
			c.TrainFraction)
	}
	return nil
}

// Excluded returns the excluded residue codes as an upper-cased slice.
func (c Config) Excluded() []string {
	codes := make([]string, len(c.ExcludedResidues))
	for i, code := range c.ExcludedResidues {
		codes[i] = strings.ToUpper(code)
	}
	return codes
}
