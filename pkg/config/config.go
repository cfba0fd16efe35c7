package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/cloud-bulldozer/nx/pkg/logging"
	"gopkg.in/yaml.v3"
)

// Format selects how rows are rendered.
type Format string

const (
	// Human is the aligned, bordered layout.
	Human Format = "human"
	// CSV is one comma separated row per sample.
	CSV Format = "csv"
)

const (
	// MinRepeats is the smallest accepted repeat count.
	MinRepeats = 1
	// MaxRepeats is the largest accepted repeat count.
	MaxRepeats = 10000
	// DefaultRepeats is used when neither the program name, a config file
	// nor -n say otherwise.
	DefaultRepeats = 10
	// DefaultIndex is the OpenSearch index documents go to.
	DefaultIndex = "nx"
)

var (
	// ErrRepeats is returned when the repeat count is out of range.
	ErrRepeats = fmt.Errorf("repeats must be in the range [%d-%d]", MinRepeats, MaxRepeats)
	// ErrNoCommand is returned when there is nothing to run.
	ErrNoCommand = errors.New("no command given")
	// ErrFormat is returned for an unknown output format.
	ErrFormat = errors.New("unknown output format")
)

// Config describes one nx run. It is built once before the first child is
// spawned and never modified afterwards.
type Config struct {
	Repeats   int      `yaml:"repeats,omitempty"`
	Format    Format   `yaml:"format,omitempty"`
	Output    string   `yaml:"output,omitempty"`
	Table     bool     `yaml:"table,omitempty"`
	Archive   bool     `yaml:"archive,omitempty"`
	SearchURL string   `yaml:"search,omitempty"`
	Index     string   `yaml:"index,omitempty"`
	UUID      string   `yaml:"uuid,omitempty"`
	Command   []string `yaml:"command,omitempty"`
}

// Default returns the built-in configuration with the repeat count
// possibly taken from the program name, see RepeatsFromName.
func Default(progName string) Config {
	c := Config{
		Repeats: DefaultRepeats,
		Format:  Human,
		Index:   DefaultIndex,
	}
	if n, ok := RepeatsFromName(progName); ok {
		c.Repeats = n
	}
	return c
}

// RepeatsFromName extracts N from a program named "<N>x", so a binary
// installed as "100x" runs commands 100 times unless -n says otherwise.
func RepeatsFromName(progName string) (int, bool) {
	base := filepath.Base(progName)
	num, ok := strings.CutSuffix(base, "x")
	if !ok || num == "" {
		return 0, false
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseFormat maps a name to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case Human:
		return Human, nil
	case CSV:
		return CSV, nil
	}
	return "", fmt.Errorf("%w: %q", ErrFormat, s)
}

// Validate checks c is runnable.
func Validate(c Config) error {
	if c.Repeats < MinRepeats || c.Repeats > MaxRepeats {
		return ErrRepeats
	}
	if _, err := ParseFormat(string(c.Format)); err != nil {
		return err
	}
	if len(c.Command) == 0 || c.Command[0] == "" {
		return ErrNoCommand
	}
	return nil
}

// ParseConf will read in a YAML configuration file and overlay it on base.
// Keys missing from the file keep the value from base.
func ParseConf(fn string, base Config) (Config, error) {
	log.Infof("📒 Reading %s file. ", fn)
	buf, err := os.ReadFile(fn)
	if err != nil {
		return base, err
	}
	c := base
	err = yaml.Unmarshal(buf, &c)
	if err != nil {
		return base, fmt.Errorf("in file %q: %v", fn, err)
	}
	if c.Format != "" {
		f, err := ParseFormat(string(c.Format))
		if err != nil {
			return base, fmt.Errorf("in file %q: %w", fn, err)
		}
		c.Format = f
	}
	if c.Repeats < MinRepeats || c.Repeats > MaxRepeats {
		return base, fmt.Errorf("in file %q: %w", fn, ErrRepeats)
	}
	return c, nil
}

// Show Display the run configuration
func Show(c Config) {
	log.Debugf("🗒️  Running %q %d times (format %s)", strings.Join(c.Command, " "), c.Repeats, c.Format)
}
