// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config provides the configuration of a unitrun test binary.
// A configuration value is taken from, in increasing precedence, its
// default, an env file, an UNITRUN_* environment variable and finally
// an explicitly given command line flag.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// ErrInvalid is wrapped by every error about an invalid configuration
// value.
var ErrInvalid = errors.New("config: invalid value")

// Config holds the configuration of a test run.
type Config struct {
	// Filter selects the tests to run by their "suite.test" identity,
	// see Matcher.
	Filter string

	// Verbose reports every test, not only failing ones.
	Verbose bool

	Color    bool
	Progress bool

	// Workers greater one runs suites in parallel.
	Workers int

	LogLevel string

	// EnvFile is the env file which was read, it may not exist.
	EnvFile string
}

// Flags holds command-line flags.  A flag's zero value doesn't override
// other configuration sources.
type Flags struct {
	Filter   string
	Verbose  bool
	NoColor  bool
	Progress bool
	Workers  int
	LogLevel string
	EnvFile  string
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Filter:   DefaultFilter,
		Color:    DefaultColor,
		Workers:  DefaultWorkers,
		LogLevel: DefaultLogLevel,
		EnvFile:  DefaultEnvFile,
	}
}

// Load creates a config from defaults, the env file, the environment
// and given flags.  A missing env file is ignored.  Load reports all
// invalid values at once.
func Load(flags Flags) (*Config, error) {
	cfg := New()
	if v, ok := os.LookupEnv(EnvPrefix + KeyEnvFile); ok && v != "" {
		cfg.EnvFile = v
	}
	if flags.EnvFile != "" {
		cfg.EnvFile = flags.EnvFile
	}

	var errs *multierror.Error
	values, err := godotenv.Read(cfg.EnvFile)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			errs = multierror.Append(errs,
				fmt.Errorf("config: read %s: %w", cfg.EnvFile, err))
		}
		values = map[string]string{}
	}
	for _, k := range []string{KeyFilter, KeyVerbose, KeyColor,
		KeyProgress, KeyWorkers, KeyLogLevel} {
		if v, ok := os.LookupEnv(EnvPrefix + k); ok {
			values[EnvPrefix+k] = v
		}
	}
	if err := cfg.apply(values); err != nil {
		errs = multierror.Append(errs, err)
	}

	if flags.Filter != "" {
		cfg.Filter = flags.Filter
	}
	if flags.Verbose {
		cfg.Verbose = true
	}
	if flags.NoColor {
		cfg.Color = false
	}
	if flags.Progress {
		cfg.Progress = true
	}
	if flags.Workers != 0 {
		cfg.Workers = flags.Workers
	}
	if flags.LogLevel != "" {
		cfg.LogLevel = flags.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// apply sets the values of given UNITRUN_* keys.
func (c *Config) apply(values map[string]string) error {
	var errs *multierror.Error
	lookup := func(key string) (string, bool) {
		v, ok := values[EnvPrefix+key]
		return strings.TrimSpace(v), ok
	}
	setBool := func(key string, dst *bool) {
		v, ok := lookup(key)
		if !ok {
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = multierror.Append(errs, invalid(EnvPrefix+key, v))
			return
		}
		*dst = b
	}

	if v, ok := lookup(KeyFilter); ok {
		c.Filter = v
	}
	setBool(KeyVerbose, &c.Verbose)
	setBool(KeyColor, &c.Color)
	setBool(KeyProgress, &c.Progress)
	if v, ok := lookup(KeyWorkers); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = multierror.Append(errs, invalid(EnvPrefix+KeyWorkers, v))
		} else {
			c.Workers = n
		}
	}
	if v, ok := lookup(KeyLogLevel); ok {
		c.LogLevel = v
	}
	return errs.ErrorOrNil()
}

func invalid(name, value string) error {
	return fmt.Errorf("%w: %s=%q", ErrInvalid, name, value)
}

// Validate reports all invalid values of c.
func (c *Config) Validate() error {
	var errs *multierror.Error
	if c.Workers < 1 {
		errs = multierror.Append(errs,
			invalid("workers", strconv.Itoa(c.Workers)))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = multierror.Append(errs, invalid("log level", c.LogLevel))
	}
	pos, neg := patterns(c.Filter)
	for _, p := range append(pos, neg...) {
		if _, err := path.Match(p, ""); err != nil {
			errs = multierror.Append(errs, invalid("filter", p))
		}
	}
	return errs.ErrorOrNil()
}

// Level returns the logrus level of c's LogLevel defaulting to
// warning.
func (c *Config) Level() log.Level {
	l, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.WarnLevel
	}
	return l
}

// Matcher returns a function reporting if a test is selected by c's
// Filter.  A filter has the form
//
//	pos1:pos2:...-neg1:neg2:...
//
// whereas each pattern is a glob over the test's "suite.test" identity
// (see path.Match).  A test is selected iff it matches a positive
// pattern and no negative one.  An empty positive part selects every
// test, e.g. "-foo.*" runs all tests except those of suite foo.  The
// first "-" starts the negative part, i.e. a positive pattern can't
// contain a "-": match it by "?" instead, e.g. "nil?hooks.*" selects
// the tests of suite "nil-hooks".
func (c *Config) Matcher() func(suite, test string) bool {
	pos, neg := patterns(c.Filter)
	return func(suite, test string) bool {
		id := suite + "." + test
		return matchAny(pos, id) && !matchAny(neg, id)
	}
}

func patterns(filter string) (pos, neg []string) {
	p, n, _ := strings.Cut(filter, "-")
	pos, neg = split(p), split(n)
	if len(pos) == 0 {
		pos = []string{DefaultFilter}
	}
	return pos, neg
}

func split(s string) []string {
	pp := []string{}
	for _, p := range strings.Split(s, ":") {
		if p = strings.TrimSpace(p); p != "" {
			pp = append(pp, p)
		}
	}
	return pp
}

func matchAny(patterns []string, id string) bool {
	for _, p := range patterns {
		if ok, err := path.Match(p, id); err == nil && ok {
			return true
		}
	}
	return false
}
