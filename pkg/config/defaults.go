// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config

const (
	// DefaultFilter selects every test.
	DefaultFilter = "*"
	// DefaultWorkers runs suites sequentially.
	DefaultWorkers = 1
	// DefaultLogLevel is the default logrus level of the runner.
	DefaultLogLevel = "warning"
	// DefaultEnvFile is read if present.
	DefaultEnvFile = ".env"
	// DefaultColor enables colored console output.
	DefaultColor = true
)

// EnvPrefix prefixes the environment variables overriding defaults and
// env-file values, e.g. UNITRUN_WORKERS.
const EnvPrefix = "UNITRUN_"

// Keys of the environment variables respectively env-file entries
// without EnvPrefix.
const (
	KeyFilter   = "FILTER"
	KeyVerbose  = "VERBOSE"
	KeyColor    = "COLOR"
	KeyProgress = "PROGRESS"
	KeyWorkers  = "WORKERS"
	KeyLogLevel = "LOG_LEVEL"
	KeyEnvFile  = "ENV_FILE"
)
