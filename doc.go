// Package unitrun is a small unit-testing engine: tests are declared
// in named suites, registered during package initialization and run
// sequentially by a Runner which produces a RunSummary.
//
// Tests without fixture are registered by name:
//
//	import "github.com/slukits/unitrun"
//
//	var _ = unitrun.Test("foo", "bar1", func(t *unitrun.T) {
//	    t.Check.GE(42, 13)
//	    t.Check.LE(13, 8) // fails but the test continues
//	})
//
//	var _ = unitrun.Test("foo", "bar2", func(t *unitrun.T) {
//	    t.Require.StrEq("foo", "foo")
//	    t.Require.StrEq("foo", "foobar") // fails and aborts the test
//	})
//
// A suite may be bound to a fixture type whose zero value is allocated
// for each test, handed to the set-up hook, the test and the tear-down
// hook and dropped afterwards:
//
//	type counter struct{ n int }
//
//	var cnt = unitrun.FixtureSuite("counter",
//	    func(t *unitrun.T, fx *counter) { fx.n = 1 },
//	    func(t *unitrun.T, fx *counter) { t.Log("final count", fx.n) },
//	)
//
//	var _ = cnt.Test("increments", func(t *unitrun.T, fx *counter) {
//	    fx.n++
//	    t.Check.EQ(fx.n, 2)
//	})
//
// Alternatively a struct embedding [Suite] is a suite whose exported
// methods with signature func(*T) are its tests and whose optional
// SetUp and TearDown methods are its hooks; the struct itself is the
// fixture (see [Suite]).
//
// Assertions come in two flavors accessed through a T instance's
// fields: T.Check records a failure and lets the test continue while
// T.Require records a failure and aborts the running set-up, test or
// tear-down.  A test whose set-up succeeded always has its tear-down
// run, even if the test aborted.  A test whose set-up aborted neither
// runs its body nor its tear-down.  A failure never stops the run.
//
// Registrations are validated: a duplicate (suite, test) identity or
// a suite bound to conflicting fixtures is a configuration error which
// makes the run fail before any test executes.
//
// The run is started by the process-wide entry point [Main] or, inside
// go test, by [GoTest].  The packages pkg/config, pkg/console and
// pkg/cli provide configuration, human readable output and a command
// line front end around Main.
package unitrun
