// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package unitrun

// ResetEntryPoint allows a test to claim the process-wide entry point
// of Main anew.
func ResetEntryPoint() {
	entry.mutex.Lock()
	defer entry.mutex.Unlock()
	entry.claimer = ""
}

// TrueErr default message for failed 'true'-assertion.
const TrueErr = trueErr

// FalseErr default message for failed 'false'-assertion.
const FalseErr = falseErr
