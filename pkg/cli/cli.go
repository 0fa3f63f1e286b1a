// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package cli provides the command line interface of a unitrun test
// binary:
//
//	package main
//
//	import (
//	    "os"
//
//	    "github.com/slukits/unitrun/pkg/cli"
//	)
//
//	// ... tests registered at unitrun.Default ...
//
//	func main() { os.Exit(cli.Execute(nil, os.Args[1:])) }
package cli

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/slukits/unitrun"
	"github.com/slukits/unitrun/pkg/config"
	"github.com/slukits/unitrun/pkg/console"
)

// Exit statuses of a test binary.
const (
	ExitOK     = 0
	ExitFailed = 1
	ExitConfig = 2
)

// Flags holds command-line flags
type Flags struct {
	Filter   string
	Verbose  bool
	NoColor  bool
	Progress bool
	Workers  int
	LogLevel string
	EnvFile  string
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Filter:   f.Filter,
		Verbose:  f.Verbose,
		NoColor:  f.NoColor,
		Progress: f.Progress,
		Workers:  f.Workers,
		LogLevel: f.LogLevel,
		EnvFile:  f.EnvFile,
	}
}

// Execute runs the tests of given registry, the Default registry if
// nil, as configured by given arguments and returns the process's exit
// status.  Execute claims the process's entry point (see unitrun.Main).
func Execute(reg *unitrun.Registry, args []string) int {
	return (&App{
		Registry: reg,
		Out:      os.Stdout,
		Err:      os.Stderr,
		Run:      unitrun.Main,
	}).Execute(args)
}

// App is a test binary's command line application.
type App struct {
	Registry *unitrun.Registry
	Out      io.Writer
	Err      io.Writer

	// Run runs the configured runner; it defaults to Runner.Run.
	Run func(*unitrun.Runner) (*unitrun.RunSummary, error)

	flags Flags
	code  int
}

// Execute runs the root command with given arguments.  The returned
// exit status is ExitConfig for invalid arguments, an invalid
// configuration or a registry reporting configuration errors.
func (a *App) Execute(args []string) int {
	if args == nil {
		args = []string{}
	}
	a.code = ExitOK
	root := a.rootCommand()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(a.Err, "Error: %v\n", err)
		return ExitConfig
	}
	return a.code
}

func (a *App) registry() *unitrun.Registry {
	if a.Registry == nil {
		return unitrun.Default
	}
	return a.Registry
}

func (a *App) rootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "unitrun",
		Short:         "Run the registered unit tests",
		Long:          "Run the registered unit tests suite by suite and report their failures",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          a.run,
	}
	rootCmd.SetOut(a.Out)
	rootCmd.SetErr(a.Err)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&a.flags.Filter, "filter", "f", "", "Select tests by 'suite.test' glob patterns 'pos1:pos2-neg1:neg2'")
	pf.StringVar(&a.flags.EnvFile, "env-file", "", "Env file with UNITRUN_* settings (default \".env\")")
	pf.StringVar(&a.flags.LogLevel, "log-level", "", "Log level of the runner (default \"warning\")")
	pf.BoolVar(&a.flags.NoColor, "no-color", false, "Disable colored output")
	rootCmd.Flags().BoolVarP(&a.flags.Verbose, "verbose", "v", false, "Report passing tests and test logs")
	rootCmd.Flags().BoolVar(&a.flags.Progress, "progress", false, "Show a progress bar instead of per test reports")
	rootCmd.Flags().IntVarP(&a.flags.Workers, "workers", "w", 0, "Number of suites run in parallel (default 1)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered tests",
		Long:  "List the selected tests in run order without running them",
		Args:  cobra.NoArgs,
		RunE:  a.list,
	})
	return rootCmd
}

func (a *App) config() (*config.Config, error) {
	cfg, err := config.Load(a.flags.ToConfigFlags())
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

func (a *App) selected(cfg *config.Config) func(*unitrun.Descriptor) bool {
	match := cfg.Matcher()
	return func(d *unitrun.Descriptor) bool {
		return match(d.Suite, d.Name)
	}
}

func (a *App) run(cmd *cobra.Command, args []string) error {
	cfg, err := a.config()
	if err != nil {
		return err
	}
	logger := log.New()
	logger.SetOutput(a.Err)
	logger.SetLevel(cfg.Level())

	filter, total := a.selected(cfg), 0
	for _, d := range a.registry().All() {
		if filter(d) {
			total++
		}
	}
	out := console.New(a.Out, console.Options{
		Verbose:  cfg.Verbose,
		Color:    cfg.Color,
		Progress: cfg.Progress,
		Total:    total,
	})

	run := a.Run
	if run == nil {
		run = (*unitrun.Runner).Run
	}
	summary, err := run(&unitrun.Runner{
		Registry: a.registry(),
		Filter:   filter,
		Listener: out,
		Logger:   logger,
		Workers:  cfg.Workers,
	})
	if err != nil {
		return err
	}
	out.Summary(summary)
	a.code = summary.ExitCode()
	return nil
}

func (a *App) list(cmd *cobra.Command, args []string) error {
	cfg, err := a.config()
	if err != nil {
		return err
	}
	if err := a.registry().Err(); err != nil {
		return err
	}
	filter, dd := a.selected(cfg), []*unitrun.Descriptor{}
	for _, d := range a.registry().All() {
		if filter(d) {
			dd = append(dd, d)
		}
	}
	console.New(a.Out, console.Options{Color: cfg.Color}).List(dd)
	return nil
}
