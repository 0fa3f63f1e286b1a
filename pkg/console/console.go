// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package console renders the progress and the summary of a unitrun
// run line-oriented to a writer.  A Console is a unitrun.Listener:
//
//	c := console.New(os.Stdout, console.Options{Color: true})
//	summary, err := (&unitrun.Runner{Listener: c}).Run()
//	if err == nil {
//	    c.Summary(summary)
//	}
package console

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/ryanuber/columnize"
	"github.com/schollz/progressbar/v3"

	"github.com/slukits/unitrun"
)

// Options control what a Console renders.
type Options struct {
	// Verbose reports passing tests and the log lines of every test.
	Verbose bool

	Color bool

	// Progress replaces the per-test report by a progress bar; failures
	// are then reported by Summary.
	Progress bool

	// Total is the number of tests which are going to run.  It is the
	// length of the progress bar.
	Total int
}

// Console reports a run's tests as they finish and its summary.
type Console struct {
	out  io.Writer
	opts Options
	bar  *progressbar.ProgressBar

	pass, fail, info *color.Color

	passed, failed int
}

// New creates a console writing to given writer.
func New(out io.Writer, opts Options) *Console {
	c := &Console{
		out:  out,
		opts: opts,
		pass: color.New(color.FgGreen),
		fail: color.New(color.FgRed, color.Bold),
		info: color.New(color.FgCyan),
	}
	for _, col := range []*color.Color{c.pass, c.fail, c.info} {
		if opts.Color {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}
	if opts.Progress {
		c.bar = progressbar.NewOptions(opts.Total,
			progressbar.OptionSetDescription(c.description()),
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetWidth(40),
			progressbar.OptionEnableColorCodes(opts.Color),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprint(out, "\n")
			}),
			progressbar.OptionSetRenderBlankState(true),
		)
	}
	return c
}

func (c *Console) description() string {
	return c.info.Sprint("Running tests: ") +
		c.pass.Sprintf("[passed: %d", c.passed) + " | " +
		c.fail.Sprintf("failed: %d]", c.failed)
}

// TestStarted reports the start of given test in verbose mode.
func (c *Console) TestStarted(d *unitrun.Descriptor) {
	if !c.opts.Verbose || c.bar != nil {
		return
	}
	fmt.Fprintf(c.out, "=== RUN   %s\n", d.ID())
}

// TestFinished reports given outcome: failing tests always, passing
// tests only in verbose mode.  With a progress bar only the bar is
// updated.
func (c *Console) TestFinished(o *unitrun.Outcome) {
	if o.Passed() {
		c.passed++
	} else {
		c.failed++
	}
	if c.bar != nil {
		c.bar.Describe(c.description())
		_ = c.bar.Add(1)
		return
	}
	if o.Passed() && !c.opts.Verbose {
		return
	}

	status := c.pass.Sprint("--- PASS")
	if !o.Passed() {
		status = c.fail.Sprint("--- FAIL")
	}
	fmt.Fprintf(c.out, "%s: %s (%.2fs)\n",
		status, o.Descriptor.ID(), o.Elapsed.Seconds())
	if c.opts.Verbose || !o.Passed() {
		for _, l := range o.Logs {
			fmt.Fprintf(c.out, "    %s\n", l)
		}
	}
	for _, f := range o.Failures {
		c.failure(f, "    ")
	}
}

func (c *Console) failure(f unitrun.FailureRecord, indent string) {
	fmt.Fprintf(c.out, "%s%s: %s\n", indent, f.Location(),
		indentLines(f.Message, indent+"    "))
	if f.Stack != "" {
		fmt.Fprintf(c.out, "%s    %s\n", indent, indentLines(
			strings.TrimSuffix(f.Stack, "\n"), indent+"    "))
	}
	if f.Expected == "" && f.Actual == "" {
		return
	}
	fmt.Fprintf(c.out, "%s    expected: %s\n", indent, f.Expected)
	fmt.Fprintf(c.out, "%s    actual:   %s\n", indent, f.Actual)
}

func indentLines(s, indent string) string {
	return strings.ReplaceAll(s, "\n", "\n"+indent)
}

// Summary reports given run summary as key-value table followed by the
// run's verdict.  In progress mode the failures are reported first.
func (c *Console) Summary(s *unitrun.RunSummary) {
	if c.bar != nil {
		_ = c.bar.Finish()
		for _, f := range s.Failures {
			fmt.Fprintf(c.out, "%s %s.%s\n",
				c.fail.Sprint("FAIL"), f.Suite, f.Test)
			c.failure(f, "    ")
		}
	}

	fmt.Fprintln(c.out, formatKV([]string{
		fmt.Sprintf("suites|%d (%d failed)", s.Suites, s.FailedSuites),
		fmt.Sprintf("tests|%d", s.Tests),
		fmt.Sprintf("passed|%d", s.Passed),
		fmt.Sprintf("failed|%d", s.Failed),
		fmt.Sprintf("filtered|%d", s.Filtered),
		fmt.Sprintf("assertions|%d", s.Assertions),
		fmt.Sprintf("elapsed|%s", s.Elapsed.Round(time.Millisecond)),
	}))
	if s.OK() {
		c.pass.Fprintln(c.out, "OK")
		return
	}
	c.fail.Fprintf(c.out, "FAIL (%d failures)\n", len(s.Failures))
}

// List reports given descriptors as table of suite, test and
// registration location.
func (c *Console) List(dd []*unitrun.Descriptor) {
	rows := []string{"SUITE|TEST|LOCATION"}
	for _, d := range dd {
		rows = append(rows, fmt.Sprintf("%s|%s|%s",
			d.Suite, d.Name, d.Location()))
	}
	if len(dd) == 0 {
		rows = append(rows, "||")
	}
	fmt.Fprintln(c.out, formatList(rows))
}

func formatList(in []string) string {
	columnConf := columnize.DefaultConfig()
	columnConf.Empty = "<none>"
	return columnize.Format(in, columnConf)
}

func formatKV(in []string) string {
	columnConf := columnize.DefaultConfig()
	columnConf.Empty = "<none>"
	columnConf.Glue = " = "
	return columnize.Format(in, columnConf)
}
