// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package unitrun

import (
	"fmt"
	"sync"
)

// entryPoint guards that only one entry point runs a process's tests.
type entryPoint struct {
	mutex   sync.Mutex
	claimer string
}

var entry = &entryPoint{}

// claim returns nil for the first claim and a *ConfigError naming the
// first claimer for every further claim.
func (e *entryPoint) claim(location string) error {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if e.claimer == "" {
		e.claimer = location
		return nil
	}
	return &ConfigError{
		Kind:     EntryPointConflict,
		Location: location,
		Detail:   "tests are already run from " + e.claimer,
	}
}

// Main is the process-wide entry point running all registered tests
// once every package initialization has registered its tests:
//
//	func main() {
//	    summary, err := unitrun.Main(nil)
//	    if err != nil {
//	        fmt.Fprintln(os.Stderr, err)
//	        os.Exit(2)
//	    }
//	    os.Exit(summary.ExitCode())
//	}
//
// A nil runner runs the Default registry sequentially.  Main may be
// called only once per process; further calls fail with a
// configuration error without running any test.  Main also fails
// without running any test if the runner's registry reports
// configuration errors.
func Main(r *Runner) (*RunSummary, error) {
	file, line := caller(2)
	if err := entry.claim(fmt.Sprintf("%s:%d", file, line)); err != nil {
		return nil, err
	}
	if r == nil {
		r = &Runner{}
	}
	return r.Run()
}
